package types_test

import (
	"testing"

	"github.com/litigio/tramita/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func TestActionStatusNormalize(t *testing.T) {
	cases := map[types.ActionStatus]types.ActionStatus{
		"":                           types.ActionStatusUnstarted,
		types.ActionStatusUnstarted:  types.ActionStatusUnstarted,
		types.ActionStatusInProgress: types.ActionStatusInProgress,
		types.ActionStatusFinished:   types.ActionStatusFinished,
		types.ActionStatusReturned:   types.ActionStatusReturned,
		// legacy values collapse into the finished column
		types.ActionStatusLegacyConcluded: types.ActionStatusFinished,
		types.ActionStatusLegacyApproved:  types.ActionStatusFinished,
		types.ActionStatusLegacyFiled:     types.ActionStatusFinished,
	}

	for input, want := range cases {
		gt.Value(t, input.Normalize()).Equal(want)
	}

	// an unknown value survives normalization untouched
	unknown := types.ActionStatus("Arquivado")
	gt.Value(t, unknown.Normalize()).Equal(unknown)
	gt.Bool(t, unknown.Normalize().IsValid()).False()
}

func TestActionStatusStoredValues(t *testing.T) {
	// finished rows may carry any of the legacy completion values
	gt.Value(t, types.ActionStatusFinished.StoredValues()).Equal([]types.ActionStatus{
		types.ActionStatusFinished,
		types.ActionStatusLegacyConcluded,
		types.ActionStatusLegacyApproved,
		types.ActionStatusLegacyFiled,
	})

	// unstarted rows may predate the default status
	gt.Value(t, types.ActionStatusUnstarted.StoredValues()).Equal([]types.ActionStatus{
		types.ActionStatusUnstarted,
		"",
	})

	gt.Value(t, types.ActionStatusInProgress.StoredValues()).Equal([]types.ActionStatus{
		types.ActionStatusInProgress,
	})
}

func TestActionStatusCompletedLike(t *testing.T) {
	gt.Bool(t, types.ActionStatusFinished.IsCompletedLike()).True()
	gt.Bool(t, types.ActionStatusLegacyConcluded.IsCompletedLike()).True()
	gt.Bool(t, types.ActionStatusLegacyFiled.IsCompletedLike()).True()
	gt.Bool(t, types.ActionStatusUnstarted.IsCompletedLike()).False()
	gt.Bool(t, types.ActionStatusInProgress.IsCompletedLike()).False()
	gt.Bool(t, types.ActionStatusReturned.IsCompletedLike()).False()
}

func TestParseActionStatus(t *testing.T) {
	status, err := types.ParseActionStatus("Concluído")
	gt.NoError(t, err).Required()
	gt.Value(t, status).Equal(types.ActionStatusFinished)

	status, err = types.ParseActionStatus("")
	gt.NoError(t, err).Required()
	gt.Value(t, status).Equal(types.ActionStatusUnstarted)

	_, err = types.ParseActionStatus("Arquivado")
	gt.Error(t, err)
}

func TestParseComplexity(t *testing.T) {
	complexity, err := types.ParseComplexity("Média")
	gt.NoError(t, err).Required()
	gt.Value(t, complexity).Equal(types.ComplexityMedium)

	_, err = types.ParseComplexity("Impossível")
	gt.Error(t, err)
}
