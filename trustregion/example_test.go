// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trustregion_test

import (
	"fmt"
	"log"

	"github.com/curioloop/descent/iteration"
	"github.com/curioloop/descent/objective"
	"github.com/curioloop/descent/trustregion"
)

func ExampleOptimizer() {
	p := trustregion.Problem{N: 2, Func: objective.Sphere{}}
	o, err := p.New(nil)
	if err != nil {
		log.Fatal(err)
	}

	d := iteration.Driver{Method: o, Stop: iteration.Termination{MaxIterations: 20}}
	res, err := d.Run([]float64{3, 4})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%v after %d iterations at %v radius %v\n", res.Status, res.NumIter, res.X, o.Radius())
	// Output:
	// CONVERGENCE: GRADIENT VANISHED after 3 iterations at [0 0] radius 8
}
