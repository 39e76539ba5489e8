// Package request provides the predicate trees used to query access points.
//
// A Request is a closed, immutable tree: Condition leaves combined with the And, Or and Not
// combinators. Trees are plain values, so they can be shared between goroutines and compared
// structurally with Equal.
//
//	r := request.And{
//		request.C("id", request.Gt, 1),
//		request.Not{Request: request.Or{
//			request.C("name", request.Eq, "foo"),
//			request.C("name", request.Like, "b%"),
//		}},
//	}
//
// Rename substitutes property names while keeping the shape of a tree, Matches evaluates a tree
// against a record held in memory, and FromMap turns the flat filter form
// (property name -> expected value) into an And of equality Conditions.
package request
