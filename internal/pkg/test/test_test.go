// Copyright: This file is part of netrace, released under https://github.com/netrace/netrace/blob/main/LICENSE

package test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON(t *testing.T) {
	v := map[string]any{"a": 1, "b": []string{"x"}}
	assert.Equal(t, `{"a":1,"b":["x"]}`, JSONString(v))
	assert.Equal(t, "{\n  \"a\": 1,\n  \"b\": [\n    \"x\"\n  ]\n}\n", JSONPretty(v))
	assert.Contains(t, JSONString(func() {}), "unsupported type")
}

func TestMust(t *testing.T) {
	assert.Equal(t, 1, Must(1, nil))
	assert.PanicsWithError(t, "bad", func() { Must(1, errors.New("bad")) })
}

func TestCopyDir(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.yaml"), []byte("a: 1"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(src, "sub"), 0o755))
	dst := CopyDir(t, src)
	b, err := os.ReadFile(filepath.Join(dst, "a.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "a: 1", string(b))
	assert.NoDirExists(t, filepath.Join(dst, "sub"))
}

func TestListenAddr(t *testing.T) {
	addr, err := ListenAddr()
	require.NoError(t, err)
	assert.Regexp(t, `^127\.0\.0\.1:[0-9]+$`, addr)
}
