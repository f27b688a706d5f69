//go:build capi

// Package capi exposes a C ABI entry point for solving a netlist's DC
// operating point: a C caller hands over a netlist as a NUL-terminated
// string and gets back an array of doubles it must explicitly free.
// Built only under the capi build tag, since it pulls in cgo and is
// meaningless to a pure-Go caller.
package capi

/*
#include <stdlib.h>

typedef struct {
	double *data;
	size_t len;
	char *error;
} pixie_op_result;
*/
import "C"

import (
	"unsafe"

	"github.com/ananas-dev/pixie/pkg/dcsolve"
	"github.com/ananas-dev/pixie/pkg/netlist"
)

// PixieOpResult mirrors the C struct above. On failure, Data is NULL, Len
// is 0, and Error holds a C string describing the failure; the caller must
// free whichever of Data/Error is non-NULL via PixieFreeResult.
type PixieOpResult = C.pixie_op_result

//export PixieSolveNetlist
func PixieSolveNetlist(input *C.char) C.pixie_op_result {
	text := C.GoString(input)

	net, err := netlist.Parse(text)
	if err != nil {
		return errorResult(err.Error())
	}

	x, err := dcsolve.SolveDC(net)
	if err != nil {
		return errorResult(err.Error())
	}

	n := len(x)
	data := C.malloc(C.size_t(n) * C.size_t(unsafe.Sizeof(C.double(0))))
	out := (*[1 << 30]C.double)(data)[:n:n]
	for i, v := range x {
		out[i] = C.double(v)
	}

	return C.pixie_op_result{
		data:  (*C.double)(data),
		len:   C.size_t(n),
		error: nil,
	}
}

//export PixieFreeResult
func PixieFreeResult(r C.pixie_op_result) {
	if r.data != nil {
		C.free(unsafe.Pointer(r.data))
	}
	if r.error != nil {
		C.free(unsafe.Pointer(r.error))
	}
}

func errorResult(msg string) C.pixie_op_result {
	return C.pixie_op_result{
		data:  nil,
		len:   0,
		error: C.CString(msg),
	}
}
