package httpapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathIDAction(t *testing.T) {
	cases := []struct {
		path   string
		id     int64
		action string
		ok     bool
	}{
		{"/api/candidates/17", 17, "", true},
		{"/api/candidates/17/", 17, "", true},
		{"/api/candidates/17/allocate", 17, "allocate", true},
		{"/api/candidates/17/status", 17, "status", true},
		{"/api/candidates/", 0, "", false},
		{"/api/candidates/abc", 0, "", false},
		{"/api/candidates/-3", 0, "", false},
		{"/api/candidates/0", 0, "", false},
	}
	for _, tc := range cases {
		id, action, ok := pathIDAction(tc.path, "/api/candidates/")
		assert.Equal(t, tc.ok, ok, tc.path)
		assert.Equal(t, tc.id, id, tc.path)
		assert.Equal(t, tc.action, action, tc.path)
	}
}
