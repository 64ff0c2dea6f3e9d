package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultModifiers(t *testing.T) {
	tests := []struct {
		modifier string
		in       string
		want     string
	}{
		{"upper", "ada", "ADA"},
		{"lower", "ADA", "ada"},
		{"title", "hello world", "Hello World"},
		{"capitalize", "hello world", "Hello world"},
		{"capitalize", "", ""},
		{"trim", "  padded \n", "padded"},
		{"identifier", "My App-2", "My_App_2"},
		{"identifier", "2fast", "_2fast"},
		{"identifier", "", "_"},
		{"identifier", "déjà_vu", "déjà_vu"},
		{"rfc1034", "My App_é", "My-App--"},
		{"rfc1034", "com.example.app", "com.example.app"},
		{"camel", "my app name", "myAppName"},
		{"camel", "HTTPServer", "httpServer"},
		{"pascal", "my-app", "MyApp"},
		{"pascal", "user_id", "UserId"},
		{"snake", "HTTPServer", "http_server"},
		{"snake", "MyAppName", "my_app_name"},
		{"snake", "version2Beta", "version2_beta"},
		{"kebab", "My App", "my-app"},
		{"xml", `a<b & "c" 'd'>`, "a&lt;b &amp; &quot;c&quot; &apos;d&apos;&gt;"},
		{"basename", "Sources/main.swift", "main"},
		{"basename", "archive.tar.gz", "archive.tar"},
		{"basename", "README", "README"},
	}

	mods := DefaultModifiers()
	for _, tt := range tests {
		t.Run(tt.modifier+"/"+tt.in, func(t *testing.T) {
			fn, ok := mods[tt.modifier]
			if assert.True(t, ok, "modifier %q missing", tt.modifier) {
				assert.Equal(t, tt.want, fn(tt.in))
			}
		})
	}
}

func TestSplitWords(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"single", []string{"single"}},
		{"two words", []string{"two", "words"}},
		{"camelCase", []string{"camel", "Case"}},
		{"HTTPServer", []string{"HTTP", "Server"}},
		{"snake_case-and-kebab", []string{"snake", "case", "and", "kebab"}},
		{"  --  ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, splitWords(tt.in))
		})
	}
}

func TestModifierSetNames(t *testing.T) {
	names := DefaultModifiers().Names()
	assert.Contains(t, names, "upper")
	assert.Contains(t, names, "identifier")
	assert.IsIncreasing(t, names)
}

func TestModifierSetCloneIsIndependent(t *testing.T) {
	set := DefaultModifiers()
	clone := set.Clone()
	delete(clone, "upper")

	_, ok := set["upper"]
	assert.True(t, ok)
}
