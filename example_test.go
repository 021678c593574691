package reals_test

import (
	"fmt"

	"github.com/zephyrtronium/reals"
)

func ExampleRational() {
	twoThirds := reals.MustRational(2, 3)
	oneFourth := reals.MustRational(1, 4)
	fmt.Println(twoThirds.Mul(oneFourth))
	fmt.Println(oneFourth.Neg())
	inv, _ := oneFourth.Inverse()
	fmt.Println(inv)
	fmt.Println(reals.MustRational(2, 4), reals.MustRational(2, 4).LowestTerms())
	_, err := reals.NewRational(1, 0)
	fmt.Println(err)

	// Output:
	// (1 / 6)
	// (-1 / 4)
	// (4 / 1)
	// (2 / 4) (1 / 2)
	// reals: zero denominator
}

func ExampleReal() {
	two := reals.NewReal(reals.Int(2))
	half := reals.NewReal(reals.MustRational(1, 2))
	fmt.Println(two.Add(two).Approx(100))
	fmt.Println(two.Mul(half).Approx(100))
	fmt.Println(reals.Sqrt(two).Approx(100))

	// Output:
	// (4 / 1)
	// (1 / 1)
	// (141 / 100)
}

func ExampleReal_DecimalApprox() {
	fmt.Println(reals.Sqrt(reals.NewReal(reals.Int(2))).DecimalApprox(5))

	// Output:
	// 1.414210
}
