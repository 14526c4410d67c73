package vardata_test

import (
	"fmt"

	"github.com/lwmacct/251207-go-pkg-oevars/pkg/vardata"
)

// Example_expand shows transitive references and expressions.
func Example_expand() {
	s := vardata.New()
	s.SetVar("ARCH", "arm")
	s.SetVar("OS", "linux")
	s.SetVar("SYS", "${ARCH}-${OS}")
	s.SetVar("START", "0x4000")

	e := vardata.NewExpander()
	for _, text := range []string{"${SYS}", "${UNKNOWN}", `${@ "Test"*3}`, "${@ hex(0x1000000+${START}) }"} {
		out, err := e.Expand(text, s)
		if err != nil {
			fmt.Println("error:", err)
			continue
		}
		fmt.Println(out)
	}

	// Output:
	// arm-linux
	// ${UNKNOWN}
	// TestTestTest
	// 0x1004000
}

// Example_resolve shows override tags, append and prepend.
func Example_resolve() {
	s := vardata.New()
	s.SetVar("OVERRIDES", "arm:local")
	s.SetVar("TEST", "original")
	s.SetVar("TEST_arm", "target")
	s.SetVar("TEST_local", "local")
	s.SetVar("TEST_append", " foo")
	s.SetVar("TEST_prepend", "more ")

	r := vardata.NewResolver(vardata.WithEnviron(nil))
	if err := r.Resolve(s); err != nil {
		fmt.Println("error:", err)
		return
	}

	test, _ := s.GetVar("TEST")
	fmt.Println(test)
	fmt.Println(s.Keys())

	// Output:
	// more local foo
	// [OVERRIDES TEST]
}
