// internal/app/system/txn/txn.go
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Run executes fn inside a multi-document transaction when the server
// supports them. Standalone mongod instances (and some hosted
// lookalikes) do not; in that case fn runs once without a transaction
// and atomicity falls back to whatever the callback itself guarantees
// (for the import path, a single ordered InsertMany).
func Run(ctx context.Context, client *mongo.Client, fn func(ctx context.Context) error) error {
	sess, err := client.StartSession()
	if err != nil {
		if IsNotSupported(err) {
			zap.L().Info("transactions unsupported, running without session")
			return fn(ctx)
		}
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		zap.L().Info("transactions unsupported, running without session")
		return fn(ctx)
	}
	return err
}

// IsNotSupported reports whether err indicates the server cannot run
// multi-document transactions (standalone deployment, missing session
// support). Codes 20 (IllegalOperation), 51, and 263 are the ones seen
// in the wild; the string checks catch drivers that flatten the error.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		switch ce.Code {
		case 20, 51, 263:
			return true
		}
	}
	s := strings.ToLower(err.Error())
	if strings.Contains(s, "transaction") && strings.Contains(s, "replica set") {
		return true
	}
	if strings.Contains(s, "session") && strings.Contains(s, "not supported") {
		return true
	}
	return false
}
