// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the dense float64 tensors that flow through a
// MiniFlow graph.
//
// # Overview
//
// The engine works with three ranks:
//   - Scalars (Shape{}), produced by losses
//   - Vectors (Shape{n}), typically biases
//   - Matrices (Shape{m, n}), for data batches, weights and activations
//
// # Basic Usage
//
//	import "github.com/born-ml/miniflow/tensor"
//
//	func main() {
//	    x := tensor.MustFromRows([][]float64{{1, 2}, {3, 4}})
//	    w := tensor.MustFromRows([][]float64{{1}, {1}})
//
//	    y, err := tensor.MatMul(x, w) // Shape{2, 1}
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(y) // [[3] [7]]
//	}
//
// Operations on incompatible shapes return an error wrapping
// ErrShapeMismatch.
package tensor
