/*
Package validator implements the recursive structural matcher.

InvalidStructure walks a schema.Schema and an arbitrary decoded value together
and returns a single verdict: true when the value does not conform.

  - Array: the value must be a sequence and every element must conform to the item schema.
    An empty sequence always conforms.
  - Object: the value must be a keyed record whose key set equals the declared field set
    exactly, in any order, and every value must conform to its field schema.
  - Scalar: the primitive type of the value (see schema.TypeOf) must equal the tag. No coercion.

Evaluation short-circuits on the first mismatch. Internal faults, such as a nil
or Malformed schema node reached during the walk, are logged through the injected
*slog.Logger and folded into the verdict as "invalid". Nothing panics out of the package.
*/
package validator
