package db

import (
	"context"
	"testing"
)

func TestTxFromContextEmpty(t *testing.T) {
	if tx := TxFromContext(context.Background()); tx != nil {
		t.Errorf("TxFromContext(empty) = %v, want nil", tx)
	}
}

func TestTxFromContextIgnoresForeignValues(t *testing.T) {
	ctx := context.WithValue(context.Background(), DBTxKey, "not a tx")
	if tx := TxFromContext(ctx); tx != nil {
		t.Errorf("TxFromContext(non-tx value) = %v, want nil", tx)
	}
}
