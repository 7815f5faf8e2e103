package run

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sdecook/glox/interp"
)

func TestSourceSuccessReturnsZero(t *testing.T) {
	var out bytes.Buffer
	it := interp.NewWithOutput(&out)
	code := Source(it, []byte("print 1 + 1;"))
	assert.Equal(t, 0, code)
	assert.Equal(t, "2\n", out.String())
}

func TestSourceScanErrorReturns65(t *testing.T) {
	var out bytes.Buffer
	it := interp.NewWithOutput(&out)
	code := Source(it, []byte("print @;"))
	assert.Equal(t, 65, code)
}

func TestSourceParseErrorReturns65(t *testing.T) {
	var out bytes.Buffer
	it := interp.NewWithOutput(&out)
	code := Source(it, []byte("print 1"))
	assert.Equal(t, 65, code)
}

func TestSourceResolveErrorReturns65(t *testing.T) {
	var out bytes.Buffer
	it := interp.NewWithOutput(&out)
	code := Source(it, []byte("return 1;"))
	assert.Equal(t, 65, code)
}

func TestSourceRuntimeErrorReturns70(t *testing.T) {
	var out bytes.Buffer
	it := interp.NewWithOutput(&out)
	code := Source(it, []byte("print undefined_name;"))
	assert.Equal(t, 70, code)
}

func TestSourcePersistsStateAcrossCalls(t *testing.T) {
	var out bytes.Buffer
	it := interp.NewWithOutput(&out)
	assert.Equal(t, 0, Source(it, []byte("var x = 1;")))
	assert.Equal(t, 0, Source(it, []byte("print x;")))
	assert.Equal(t, "1\n", out.String())
}

func TestFileMissingPathReturns64(t *testing.T) {
	var out bytes.Buffer
	code := File("/nonexistent/path/to/script.lox", &out)
	assert.Equal(t, 64, code)
}
