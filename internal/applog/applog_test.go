// internal/applog/applog_test.go
package applog

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"doctrack/internal/common/logger"

	"github.com/stretchr/testify/assert"
)

func TestWriter_AppendsOneLinePerEntry(t *testing.T) {
	dir := t.TempDir()
	w := New(dir, "activity.log", nil, "", logger.NewTestLogger(t))

	assert.NoError(t, w.Append(context.Background(), map[string]interface{}{"event": "first"}))
	assert.NoError(t, w.Append(context.Background(), map[string]interface{}{"event": "second"}))

	f, err := os.Open(filepath.Join(dir, "activity.log"))
	assert.NoError(t, err)
	defer f.Close()

	var lines []map[string]interface{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry map[string]interface{}
		assert.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		lines = append(lines, entry)
	}

	assert.Len(t, lines, 2)
	assert.Equal(t, "first", lines[0]["event"])
	assert.Equal(t, "second", lines[1]["event"])
}

func TestWriter_CreatesMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")
	w := New(dir, "sms.log", nil, "", logger.NewTestLogger(t))

	assert.NoError(t, w.Append(context.Background(), map[string]interface{}{"event": "created"}))

	_, err := os.Stat(filepath.Join(dir, "sms.log"))
	assert.NoError(t, err)
}
