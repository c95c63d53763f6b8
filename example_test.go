package dynhash_test

import (
	"errors"
	"fmt"
	"log"

	"github.com/tamirms/dynhash"
	dynerrors "github.com/tamirms/dynhash/errors"
)

func Example() {
	t, err := dynhash.New(1000)
	if err != nil {
		log.Fatal(err)
	}
	for _, x := range []int64{3, 141, 592, 653} {
		if err := t.Insert(x); err != nil {
			log.Fatal(err)
		}
	}

	ok, _ := t.Locate(592)
	fmt.Println("592 present:", ok)

	if err := t.Delete(592); err != nil {
		log.Fatal(err)
	}
	ok, _ = t.Locate(592)
	fmt.Println("592 present:", ok)

	err = t.Delete(592)
	fmt.Println("second delete not found:", errors.Is(err, dynerrors.ErrNotFound))

	_, err = t.Locate(1001)
	fmt.Println("1001 out of universe:", errors.Is(err, dynerrors.ErrOutOfUniverse))
	fmt.Println("elements:", t.Len())
	// Output:
	// 592 present: true
	// 592 present: false
	// second delete not found: true
	// 1001 out of universe: true
	// elements: 3
}
