package cachepool_test

import (
	"context"
	"fmt"
	"time"

	"github.com/go-git/go-billy/v5/memfs"

	"github.com/dweisser/cachepool"
	"github.com/dweisser/cachepool/codec"
	"github.com/dweisser/cachepool/storage"
)

func ExamplePool() {
	ctx := context.Background()

	backend, _ := storage.NewFSOn(memfs.New(), codec.JSON{})
	pool := cachepool.New(backend)
	defer pool.Close()

	item := cachepool.NewItem("answer", "42")
	item.ExpiresAfter(time.Hour)
	_ = pool.Save(ctx, item)

	got, _ := pool.GetItem(ctx, "answer")
	fmt.Println(got.IsHit(ctx), got.Get(ctx))
	// Output: true 42
}

func ExamplePool_deferred() {
	ctx := context.Background()

	backend, _ := storage.NewFSOn(memfs.New(), codec.JSON{})
	pool := cachepool.New(backend)
	defer pool.Close()

	_ = pool.SaveDeferred(cachepool.NewItem("a", 1))
	_ = pool.SaveDeferred(cachepool.NewItem("b", 2))

	// Buffered items read back through the pool but have not reached the
	// backend yet.
	_, ok, _ := backend.Fetch(ctx, "a")
	fmt.Println("on backend before commit:", ok)

	_ = pool.Commit(ctx)

	_, ok, _ = backend.Fetch(ctx, "a")
	fmt.Println("on backend after commit:", ok)
	// Output:
	// on backend before commit: false
	// on backend after commit: true
}

func ExampleValidateKey() {
	fmt.Println(cachepool.ValidateKey("user_42"))
	fmt.Println(cachepool.ValidateKey("user/42") != nil)
	// Output:
	// <nil>
	// true
}
