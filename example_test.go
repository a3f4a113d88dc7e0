package cibackend_test

import (
	"fmt"
	"log"

	"github.com/tetratelabs/cibackend"
	"github.com/tetratelabs/cibackend/api"
	"github.com/tetratelabs/cibackend/internal/i386"
)

// This is a basic example of assembling a backend from a Starlark host configuration.
func Example() {
	source, err := cibackend.LoadConfig("testdata/windows_avx.star")
	if err != nil {
		log.Panicln(err)
	}

	b, err := cibackend.NewBackend(source, cibackend.NewBackendConfig())
	if err != nil {
		log.Panicln(err)
	}

	arch := b.Target().Arch()
	widest, _ := arch.LargestStorableKind(i386.CategoryXMM)
	cc, err := b.RegisterConfig().CallingConvention(api.CallingConventionJavaCall, api.ValueTypeInt,
		[]api.ValueType{api.ValueTypeInt, api.ValueTypeDouble, api.ValueTypeInt, api.ValueTypeInt})
	if err != nil {
		log.Panicln(err)
	}

	fmt.Println(b.Target())
	fmt.Println(arch.(*i386.Architecture).Features())
	fmt.Println(widest)
	fmt.Println(cc)

	// Output:
	// I386(mp=true, stackAlignment=16, implicitNullCheckLimit=4096, inlineObjects=true)
	// [SSE2, AVX]
	// V256_QWORD
	// CallingConvention[rcx:DWORD, xmm0:DOUBLE, rdx:DWORD, stack:0:DWORD -> rax:DWORD, stack=4]
}
