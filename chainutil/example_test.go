package chainutil_test

import (
	"fmt"
	"math"

	"github.com/grinpp-go/nodecore/chainutil"
)

func ExampleAmount() {

	a := chainutil.Amount(0)
	fmt.Println("Zero nanogrin:", a)

	a = chainutil.Amount(1e9)
	fmt.Println("1,000,000,000 nanogrin:", a)

	a = chainutil.Amount(1e5)
	fmt.Println("100,000 nanogrin:", a)
	// Output:
	// Zero nanogrin: 0 grin
	// 1,000,000,000 nanogrin: 1 grin
	// 100,000 nanogrin: 0.000100000 grin
}

func ExampleNewAmount() {
	amountOne, err := chainutil.NewAmount(1)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(amountOne) //Output 1

	amountFraction, err := chainutil.NewAmount(0.012345678)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(amountFraction) //Output 2

	amountZero, err := chainutil.NewAmount(0)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(amountZero) //Output 3

	amountNaN, err := chainutil.NewAmount(math.NaN())
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(amountNaN) //Output 4

	// Output: 1 grin
	// 0.012345678 grin
	// 0 grin
	// invalid grin amount
}

func ExampleAmount_unitConversions() {
	amount := chainutil.Amount(444_500_000_000)

	fmt.Println("ngrin to kgrin:", amount.Format(chainutil.AmountKiloGrin))
	fmt.Println("ngrin to grin:", amount)
	fmt.Println("ngrin to mgrin:", amount.Format(chainutil.AmountMilliGrin))
	fmt.Println("ngrin to μgrin:", amount.Format(chainutil.AmountMicroGrin))
	fmt.Println("ngrin to ngrin:", amount.Format(chainutil.AmountNanogrin))

	// Output:
	// ngrin to kgrin: 0.4445 kgrin
	// ngrin to grin: 444.500000000 grin
	// ngrin to mgrin: 444500 mgrin
	// ngrin to μgrin: 444500000 μgrin
	// ngrin to ngrin: 444500000000 ngrin
}
