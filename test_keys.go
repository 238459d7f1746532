package main

import (
	"fmt"

	"github.com/toyz/dendrite/pkg/dendrite"
)

func main() {
	// Test key round trips
	tests := []string{
		"QUERY:0",
		"BODY:2",
		"PARAM:10",
		"headers:1",
	}

	fmt.Println("Testing binding key parsing:")
	for _, test := range tests {
		src, index, err := dendrite.ParseKey(test)
		if err != nil {
			fmt.Printf("Key: %-12s -> parse error: %v\n", test, err)
			continue
		}
		fmt.Printf("Key: %-12s -> source=%s index=%d\n", test, src, index)
		fmt.Printf("  Round trip: %s\n", dendrite.Key(src, index))
		fmt.Println()
	}

	// Test invalid keys
	fmt.Println("Testing invalid binding keys:")
	invalidTests := []string{
		"QUERY",     // Missing index separator
		"NOWHERE:0", // Unknown source
		"QUERY:abc", // Non-numeric index
	}

	for _, test := range invalidTests {
		_, _, err := dendrite.ParseKey(test)
		if err != nil {
			fmt.Printf("%-12s -> ✓ Correctly rejected: %v\n", test, err)
		} else {
			fmt.Printf("%-12s -> ✗ Should have been rejected\n", test)
		}
	}

	// Test merge semantics for repeated binds on one key
	reg := dendrite.NewRegistry()
	b := dendrite.NewBuilder(reg)

	h := b.Handler("UserController", "ListUsers").
		Bind(0, dendrite.Query(dendrite.Named("page"))).
		Bind(1, dendrite.Query(dendrite.Named("limit"))).
		Bind(0, dendrite.Query(dendrite.Named("cursor")))

	fmt.Println()
	fmt.Println("Testing rebind on an existing key:")
	bindings, _ := reg.Lookup(h.ID())
	for _, key := range []string{"QUERY:0", "QUERY:1"} {
		src, index, _ := dendrite.ParseKey(key)
		desc, ok := bindings.Get(src, index)
		if !ok {
			fmt.Printf("%s -> missing\n", key)
			continue
		}
		property, _ := desc.Property()
		fmt.Printf("%s -> property=%q\n", key, property)
	}
}
