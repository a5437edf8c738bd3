package hardwareid_test

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/slashdevops/hardwareid"
)

// wmicStub answers every query with a canned wmic table.
type wmicStub struct {
	output string
}

func (s wmicStub) Execute(context.Context, string, ...string) (string, error) {
	return s.output, nil
}

// fixedInterfaces returns a single Ethernet adapter.
type fixedInterfaces []hardwareid.Interface

func (f fixedInterfaces) Interfaces(context.Context) ([]hardwareid.Interface, error) {
	return f, nil
}

// ExampleHardwareID shows the zero-configuration entry point.
func ExampleHardwareID() {
	id, err := hardwareid.HardwareID(context.Background())
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}

	fmt.Println("hardware ID:", id)
}

// ExampleResolver_Resolve resolves the product UUID on Windows from a stubbed
// wmic table.
func ExampleResolver_Resolve() {
	res, err := hardwareid.New().
		WithPlatform("windows").
		WithExecutor(wmicStub{output: "UUID\r\r\n  3F2504E0-4F89-11D3-9A0C-0305E82C3301  \r\r\n"}).
		Resolve(context.Background())
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}

	fmt.Println(res.ID)
	fmt.Println(res.Strategy)
	// Output:
	// 3F2504E0-4F89-11D3-9A0C-0305E82C3301
	// PlatformProductUUID
}

// ExampleResolver_ID_mac shows the MAC strategy on a platform without a
// product UUID query.
func ExampleResolver_ID_mac() {
	id, _ := hardwareid.New().
		WithPlatform("linux").
		WithInterfaceLister(fixedInterfaces{{Name: "eth0", HardwareAddr: "aa:bb:cc:dd:ee:ff", Up: true}}).
		ID(context.Background())

	fmt.Println(id)
	// Output:
	// MAC-AABBCCDDEEFF
}

// ExampleResolver_ID_sentinel shows the degraded identifier on a machine
// without network adapters.
func ExampleResolver_ID_sentinel() {
	id, err := hardwareid.New().
		WithPlatform("linux").
		WithInterfaceLister(fixedInterfaces{}).
		ID(context.Background())

	fmt.Println(id, err)
	// Output:
	// MAC-UNKNOWN <nil>
}

// ExampleResolver_WithQueryFallback shows a malformed query answer falling
// through to the MAC strategy.
func ExampleResolver_WithQueryFallback() {
	ctx := context.Background()
	stub := wmicStub{output: "UUID\n"}
	nics := fixedInterfaces{{Name: "Ethernet", HardwareAddr: "00-1A-2B-3C-4D-5E", Up: true}}

	_, err := hardwareid.New().
		WithPlatform("windows").
		WithExecutor(stub).
		WithInterfaceLister(nics).
		ID(ctx)
	fmt.Println(errors.Is(err, hardwareid.ErrMalformedOutput))

	id, _ := hardwareid.New().
		WithPlatform("windows").
		WithExecutor(stub).
		WithInterfaceLister(nics).
		WithQueryFallback().
		ID(ctx)
	fmt.Println(id)
	// Output:
	// true
	// MAC-001A2B3C4D5E
}

// ExampleResolver_Strategies lists the chain for a platform.
func ExampleResolver_Strategies() {
	for _, s := range hardwareid.New().WithPlatform("darwin").Strategies() {
		fmt.Printf("%d %s %v [%s]\n", s.Rank, s.Name, s.Applicable, strings.Join(s.Platforms, ","))
	}
	// Output:
	// 1 PlatformProductUUID true [darwin,windows]
	// 2 PrimaryNetworkMAC true [*]
	// 3 UnknownSentinel true [*]
}
