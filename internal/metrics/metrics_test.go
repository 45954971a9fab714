package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordParseFailure(t *testing.T) {
	before := testutil.ToFloat64(ParseFailuresTotal)
	RecordParseFailure()
	if got := testutil.ToFloat64(ParseFailuresTotal); got != before+1 {
		t.Errorf("parse failures = %v, want %v", got, before+1)
	}
}

func TestRecordDraftOperation(t *testing.T) {
	ok := DraftOperationsTotal.WithLabelValues("save", "ok")
	failed := DraftOperationsTotal.WithLabelValues("save", "error")
	okBefore, failedBefore := testutil.ToFloat64(ok), testutil.ToFloat64(failed)

	RecordDraftOperation("save", nil)
	RecordDraftOperation("save", errors.New("disk full"))

	if got := testutil.ToFloat64(ok); got != okBefore+1 {
		t.Errorf("ok = %v, want %v", got, okBefore+1)
	}
	if got := testutil.ToFloat64(failed); got != failedBefore+1 {
		t.Errorf("error = %v, want %v", got, failedBefore+1)
	}
}

func TestRecordAssemble(t *testing.T) {
	RecordAssemble(7, 0.01)
	if got := testutil.ToFloat64(PostsListed); got != 7 {
		t.Errorf("posts listed = %v, want 7", got)
	}
}
