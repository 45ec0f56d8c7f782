package sourcetree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewFileWrapsSourceBytes(t *testing.T) {
	n := NewFile("main.sl", []byte("fn main() {}"))
	assert.Equal(t, KindFile, n.Kind)
	assert.Equal(t, "main.sl", n.Name)
	assert.Equal(t, []byte("fn main() {}"), n.SourceBytes)
}
