package log

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	now = time.Now().Unix()
	err = fmt.Errorf("error message")
)

// Fatal and Fatalf are not tested
func TestLogger(t *testing.T) {
	SetLogger(6, false, true)

	Trace("test Trace", "timestamp", now, "err", err)
	Tracef("test Tracef, timestamp=%v err=%v", now, err)
	Debug("test Debug", "timestamp", now, "err", err)
	Debugf("test Debugf, timestamp=%v err=%v", now, err)
	Info("test Info", "timestamp", now, "err", err)
	Infof("test Infof, timestamp=%v err=%v", now, err)
	Printf("test Printf, timestamp=%v err=%v", now, err)
	Warn("test Warn", "timestamp", now, "err", err)
	Warnf("test Warnf, timestamp=%v err=%v", now, err)
	Error("test Error", "timestamp", now, "err", err)
	Errorf("test Errorf, timestamp=%v err=%v", now, err)

	assert.Panics(t, func() { Panic("test Panic", "timestamp", now, "err", err) }, "not panic")
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(uint32(logrus.DebugLevel), true, false)
	logrus.SetOutput(&buf)
	defer SetLogger(uint32(logrus.InfoLevel), false, false)

	Info("challenge fetched", "account", "GABC", 7, "dropped", "entries")
	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "challenge fetched", line["msg"])
	assert.Equal(t, "GABC", line["account"])
	assert.NotContains(t, line, "dropped")

	buf.Reset()
	SetLogger(uint32(logrus.InfoLevel), true, false)
	logrus.SetOutput(&buf)
	Debug("hidden")
	assert.Zero(t, buf.Len())
}

func TestSetLogFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "logtest")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	SetLogger(uint32(logrus.InfoLevel), true, false)
	defer SetLogger(uint32(logrus.InfoLevel), false, false)
	link := filepath.Join(dir, "logs", "tools.log")
	require.NoError(t, SetLogFile(link, time.Hour, 24*time.Hour))

	Info("written to file", "n", 1)
	content, err := ioutil.ReadFile(link)
	require.NoError(t, err)
	assert.Contains(t, string(content), "written to file")
}
