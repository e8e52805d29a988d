package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetFileAndLoC(t *testing.T) {
	type args struct {
		skip int
	}
	tests := []struct {
		name       string
		args       args
		wantPrefix string
	}{
		{
			name:       "caller frame",
			args:       args{skip: 0},
			wantPrefix: "pkg/utils/debug_test.go:",
		},
		{
			name:       "out of range frame",
			args:       args{skip: 1000},
			wantPrefix: "unknown:0",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetFileAndLoC(tt.args.skip)
			assert.True(t, strings.HasPrefix(got, tt.wantPrefix), "GetFileAndLoC() = %v, want prefix %v", got, tt.wantPrefix)
		})
	}
}
