package future_test

import (
	"context"
	"fmt"
	"time"

	"github.com/karupanerura/value-cache/future"
)

func ExampleNew() {
	f, resolve, _ := future.New[string]()

	go func() {
		time.Sleep(10 * time.Millisecond)
		resolve("hello")
	}()

	value, err := f.Await(context.Background())
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println(value)
	// Output:
	// hello
}

func ExampleFuture_Then() {
	f, resolve, _ := future.New[int]()

	f.Then(func(v int) {
		fmt.Println("first listener:", v)
	}, nil)
	f.Then(func(v int) {
		fmt.Println("second listener:", v)
	}, nil)

	resolve(3)
	// Output:
	// first listener: 3
	// second listener: 3
}
