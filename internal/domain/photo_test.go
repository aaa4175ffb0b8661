package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePhotoCategory(t *testing.T) {
	tests := []struct {
		in      string
		want    PhotoCategory
		wantErr bool
	}{
		{in: "", want: CategoryPortrait},
		{in: "SELFIE", want: CategorySelfie},
		{in: "LANDSCAPE", want: CategoryLandscape},
		{in: "GRAPHIC", want: CategoryGraphic},
		{in: "landscape", wantErr: true},
		{in: "PANORAMA", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePhotoCategory(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExternalAuthRejectedError(t *testing.T) {
	err := &ExternalAuthRejectedError{Message: "Bad verification code."}

	assert.Equal(t, "Bad verification code.", err.Error())
	assert.True(t, errors.Is(err, ErrExternalAuthRejected))

	var rejected *ExternalAuthRejectedError
	require.True(t, errors.As(error(err), &rejected))
	assert.Equal(t, "Bad verification code.", rejected.Message)
}
