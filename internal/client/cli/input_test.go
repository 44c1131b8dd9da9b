package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetSimpleText(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("hello world\n"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Name?", &out)
	if err != nil || got != "hello world" {
		t.Fatalf("got %q, err=%v", got, err)
	}
}

func TestGetSimpleTextEOF(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("lastline"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Name?", &out)
	if err != nil || got != "lastline" {
		t.Fatalf("got %q, err=%v", got, err)
	}
}

func TestGetMultiline_DoubleEnter(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("a\nb\n\n\n"))
	var out bytes.Buffer
	got, err := GetMultiline(in, "Enter text", &out)
	if err != nil {
		t.Fatal(err)
	}
	want := "a\nb"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestGetPassword(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()

	readPassword = func(int) ([]byte, error) { return []byte("s3cret"), nil }
	var out bytes.Buffer
	pw, err := GetPassword("Enter password", &out)
	require.NoError(t, err)
	require.Equal(t, []byte("s3cret"), pw)
	require.Equal(t, "Enter password: \n", out.String())

	readPassword = func(int) ([]byte, error) { return nil, errors.New("boom") }
	_, err = GetPassword("Enter password", &out)
	require.Error(t, err)
}

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestGetKeyValues(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    map[string]string
		wantErr bool
	}{
		{
			name:  "Unix newlines, stop on empty line",
			input: "a=1\nb=2\n\n",
			want:  map[string]string{"a": "1", "b": "2"},
		},
		{
			name:  "Windows CRLF, stop on empty line",
			input: "a=1\r\nb=2\r\n\r\n",
			want:  map[string]string{"a": "1", "b": "2"},
		},
		{
			name:  "Immediate blank line gives empty map",
			input: "\n",
			want:  map[string]string{},
		},
		{
			name:  "EOF without trailing blank line",
			input: "a=1\nb=2",
			want:  map[string]string{"a": "1", "b": "2"},
		},
		{
			name:  "Spaces around name and value are trimmed",
			input: " name = value \n\n",
			want:  map[string]string{"name": "value"},
		},
		{
			name:    "Missing separator is rejected",
			input:   "novalue\n\n",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := GetKeyValues(rdr(tc.input), "Variants", &out)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestGetConfirm(t *testing.T) {
	for input, want := range map[string]bool{"y\n": true, "YES\n": true, "n\n": false, "\n": false, "maybe\n": false} {
		var out bytes.Buffer
		got, err := GetConfirm(rdr(input), "Sure?", &out)
		require.NoError(t, err)
		require.Equal(t, want, got, "input %q", input)
	}
}

func TestOptionalParsers(t *testing.T) {
	require.Nil(t, optionalString(""))
	require.Equal(t, "x", *optionalString("x"))

	f, err := optionalFloat("")
	require.NoError(t, err)
	require.Nil(t, f)
	f, err = optionalFloat("9.5")
	require.NoError(t, err)
	require.Equal(t, 9.5, *f)
	_, err = optionalFloat("abc")
	require.Error(t, err)

	n, err := optionalInt("12")
	require.NoError(t, err)
	require.Equal(t, 12, *n)
	_, err = optionalInt("1.5")
	require.Error(t, err)

	b, err := optionalBool("true")
	require.NoError(t, err)
	require.True(t, *b)
	_, err = optionalBool("sometimes")
	require.Error(t, err)
}
