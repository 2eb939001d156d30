package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteBuiltins(t *testing.T) {
	var out bytes.Buffer
	writeBuiltins(&out)

	assert.Equal(t, `shell:killallterms
shell:killterm
file:append (~)
file:word count (#)
file:concatenate (+)
`, out.String())
}
