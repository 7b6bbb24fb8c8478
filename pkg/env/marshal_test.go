package env

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	BaseURL  string        `env:"SAMPLE_BASE_URL,required"`
	Timeout  time.Duration `env:"SAMPLE_TIMEOUT" envDefault:"60s"`
	Limit    int           `env:"SAMPLE_LIMIT"`
	Enabled  bool          `env:"SAMPLE_ENABLED"`
	Labels   []string      `env:"SAMPLE_LABELS" envSeparator:","`
	Owner    int64         `env:"SAMPLE_OWNER"`
	Untagged string
	hidden   string `env:"SAMPLE_HIDDEN"`
}

func TestMarshalEnv(t *testing.T) {
	s := &sample{
		BaseURL:  "http://127.0.0.1:5000",
		Timeout:  90 * time.Second,
		Limit:    20,
		Enabled:  true,
		Labels:   []string{"Spark", "Qianfan", "Doubao"},
		Untagged: "ignored",
		hidden:   "ignored",
	}

	got, err := MarshalEnv(s)
	require.NoError(t, err)

	want := "SAMPLE_BASE_URL=http://127.0.0.1:5000\n" +
		"SAMPLE_TIMEOUT=1m30s\n" +
		"SAMPLE_LIMIT=20\n" +
		"SAMPLE_ENABLED=true\n" +
		"SAMPLE_LABELS=Spark,Qianfan,Doubao\n"
	assert.Equal(t, want, got)
}

func TestMarshalEnv_Empty(t *testing.T) {
	got, err := MarshalEnv(&sample{})
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestMarshalEnv_RejectsNonPointer(t *testing.T) {
	_, err := MarshalEnv(sample{})
	assert.Error(t, err)

	var nilSample *sample
	_, err = MarshalEnv(nilSample)
	assert.Error(t, err)
}

func TestMarshalEnv_QuotedValuesRoundTrip(t *testing.T) {
	s := &sample{
		BaseURL: "http://host/#frag",
		Labels:  []string{"Provider A", `Say "hi"`, "C"},
	}

	content, err := MarshalEnv(s)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	parsed, err := godotenv.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "http://host/#frag", parsed["SAMPLE_BASE_URL"])
	assert.Equal(t, `Provider A,Say "hi",C`, parsed["SAMPLE_LABELS"])
}
