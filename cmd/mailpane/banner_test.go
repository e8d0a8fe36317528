package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBanner(t *testing.T) {
	out := banner("http://127.0.0.1:3030/", "http://127.0.0.1:8000")
	assert.Contains(t, out, "mailpane")
	assert.Contains(t, out, "http://127.0.0.1:3030/")
	assert.Contains(t, out, "mail api: http://127.0.0.1:8000")
}
