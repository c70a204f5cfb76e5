package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/solveway/eli/pkg/domain/types"
)

func TestParseSurface(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		want    types.Surface
		wantErr bool
	}{
		{name: "empty defaults to public", input: "", want: types.SurfacePublic},
		{name: "public", input: "public", want: types.SurfacePublic},
		{name: "internal", input: "internal", want: types.SurfaceInternal},
		{name: "unknown value", input: "admin", wantErr: true},
		{name: "case sensitive", input: "Public", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := types.ParseSurface(tc.input)
			if tc.wantErr {
				gt.Error(t, err)
				return
			}
			gt.NoError(t, err).Required()
			gt.Value(t, got).Equal(tc.want)
		})
	}
}

func TestSurfaceCapabilities(t *testing.T) {
	gt.Bool(t, types.SurfacePublic.RequiresAuth()).False()
	gt.Bool(t, types.SurfaceInternal.RequiresAuth()).True()

	gt.Bool(t, types.SurfacePublic.AllowsRecommendation()).True()
	gt.Bool(t, types.SurfaceInternal.AllowsRecommendation()).False()
}
