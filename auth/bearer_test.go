package auth_test

import (
	"testing"

	"github.com/placora/backend/auth"
	"github.com/stretchr/testify/assert"
)

func TestExtractBearer(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{
			name:   "well formed header",
			header: "Bearer abc.def.ghi",
			want:   "abc.def.ghi",
		},
		{
			name:   "scheme is case insensitive",
			header: "bearer abc.def.ghi",
			want:   "abc.def.ghi",
		},
		{
			name:    "empty header",
			header:  "",
			wantErr: true,
		},
		{
			name:    "missing token",
			header:  "Bearer",
			wantErr: true,
		},
		{
			name:    "wrong scheme",
			header:  "Basic dXNlcjpwYXNz",
			wantErr: true,
		},
		{
			name:    "extra fields",
			header:  "Bearer abc def",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := auth.ExtractBearer(tt.header)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, auth.HasTextCode(err, auth.TextCodeMalformedCredential))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStripBearer(t *testing.T) {
	assert.Equal(t, "abc.def.ghi", auth.StripBearer("Bearer abc.def.ghi"))
	assert.Equal(t, "abc.def.ghi", auth.StripBearer("abc.def.ghi"))
	assert.Equal(t, "", auth.StripBearer(""))
}
