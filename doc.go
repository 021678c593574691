// Package reals implements exact rational arithmetic and constructive real
// numbers.
//
// A Rational is an exact fraction of arbitrary-precision integers. A Real is
// a number known only through its approximations: asked for precision n, it
// answers with a Rational within 1/n of the number. Arithmetic on Reals and
// the functions Sqrt, Cos, Sin, Arctan, and Exp build new Reals whose
// approximations stay within their bounds by asking their operands for
// tighter ones. Nothing is rounded behind the caller's back, so any digit of
// a result can be had by asking for enough precision.
//
// Equality of reals is undecidable, so there is no Cmp on Real. Inverse has
// to find a precision at which its operand is visibly apart from zero, and
// never finishes when the operand is zero; InverseLimit bounds that search.
//
// The package also parses and evaluates expressions over reals, written
// similarly to math you'd write in your notes. "2 x y" is a multiplication of
// three terms. So is "{2}[x](y)". "-2^-3" is the same as "-(2^(-3))", where
// "a^b" is exponentiation by an integer constant b. Evaluating an expression
// builds a Real; approximating it does the actual work.
package reals
