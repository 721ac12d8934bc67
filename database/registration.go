package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"

	"github.com/lodgetix/reconcile/model"
)

const registrationColumns = `
	registration_id, confirmation_number, kind, function_name, total_amount,
	created_at, stripe_payment_intent_id, square_payment_id, payment_intent_id,
	transaction_id, raw
`

// RecordRegistration stages a registration document.
func (d Datasource) RecordRegistration(ctx context.Context, reg *model.CanonicalRegistration) error {
	ctx, span := otel.Tracer("Registration").Start(ctx, "Saving registration to db")
	defer span.End()

	rawJSON, err := json.Marshal(reg.Raw)
	if err != nil {
		return errors.Wrap(err, "failed to marshal registration document")
	}

	_, err = d.Conn.ExecContext(ctx,
		`INSERT INTO registrations(
			registration_id, confirmation_number, kind, function_name, total_amount,
			created_at, stripe_payment_intent_id, square_payment_id, payment_intent_id,
			transaction_id, raw
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (registration_id) DO UPDATE SET
			confirmation_number = EXCLUDED.confirmation_number,
			kind = EXCLUDED.kind,
			function_name = EXCLUDED.function_name,
			total_amount = EXCLUDED.total_amount,
			stripe_payment_intent_id = EXCLUDED.stripe_payment_intent_id,
			square_payment_id = EXCLUDED.square_payment_id,
			payment_intent_id = EXCLUDED.payment_intent_id,
			transaction_id = EXCLUDED.transaction_id,
			raw = EXCLUDED.raw`,
		reg.RegistrationID, reg.ConfirmationNumber, reg.Kind, reg.FunctionName,
		reg.TotalAmount, reg.CreatedAt, reg.StripePaymentIntentID,
		reg.SquarePaymentID, reg.PaymentIntentID, reg.TransactionID, rawJSON,
	)
	if err != nil {
		return errors.Wrap(err, "failed to record registration")
	}
	return nil
}

// GetRegistration retrieves a registration by its id or confirmation number.
func (d Datasource) GetRegistration(ctx context.Context, id string) (*model.CanonicalRegistration, error) {
	ctx, span := otel.Tracer("Registration").Start(ctx, "Fetching registration from db")
	defer span.End()

	row := d.Conn.QueryRowContext(ctx, `
		SELECT `+registrationColumns+`
		FROM registrations
		WHERE registration_id = $1 OR confirmation_number = $1
	`, id)
	return scanRegistration(row)
}

// GetRegistrationByPaymentRef finds the registration whose payment-reference
// columns (any historical variant) carry one of refs. Earliest created wins
// when more than one row matches.
func (d Datasource) GetRegistrationByPaymentRef(ctx context.Context, refs []string) (*model.CanonicalRegistration, error) {
	ctx, span := otel.Tracer("Registration").Start(ctx, "Fetching registration by payment reference")
	defer span.End()

	if len(refs) == 0 {
		return nil, nil
	}

	row := d.Conn.QueryRowContext(ctx, `
		SELECT `+registrationColumns+`
		FROM registrations
		WHERE stripe_payment_intent_id = ANY($1)
		   OR square_payment_id = ANY($1)
		   OR payment_intent_id = ANY($1)
		   OR transaction_id = ANY($1)
		ORDER BY created_at ASC
		LIMIT 1
	`, pq.Array(refs))
	return scanRegistration(row)
}

// GetRegistrationByAmountAndTime finds the earliest registration with the
// exact total amount created inside [from, to].
func (d Datasource) GetRegistrationByAmountAndTime(ctx context.Context, amount float64, from, to time.Time) (*model.CanonicalRegistration, error) {
	ctx, span := otel.Tracer("Registration").Start(ctx, "Fetching registration by amount and time window")
	defer span.End()

	row := d.Conn.QueryRowContext(ctx, `
		SELECT `+registrationColumns+`
		FROM registrations
		WHERE total_amount = $1 AND created_at BETWEEN $2 AND $3
		ORDER BY created_at ASC
		LIMIT 1
	`, amount, from, to)
	return scanRegistration(row)
}

func scanRegistration(row *sql.Row) (*model.CanonicalRegistration, error) {
	reg := &model.CanonicalRegistration{}
	var (
		confirmation sql.NullString
		kind         sql.NullString
		functionName sql.NullString
		stripeRef    sql.NullString
		squareRef    sql.NullString
		intentRef    sql.NullString
		txnRef       sql.NullString
		rawJSON      []byte
	)

	err := row.Scan(
		&reg.RegistrationID, &confirmation, &kind, &functionName,
		&reg.TotalAmount, &reg.CreatedAt, &stripeRef, &squareRef,
		&intentRef, &txnRef, &rawJSON,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to scan registration")
	}

	reg.ConfirmationNumber = confirmation.String
	reg.Kind = kind.String
	reg.FunctionName = functionName.String
	reg.StripePaymentIntentID = stripeRef.String
	reg.SquarePaymentID = squareRef.String
	reg.PaymentIntentID = intentRef.String
	reg.TransactionID = txnRef.String

	if len(rawJSON) > 0 {
		if err := json.Unmarshal(rawJSON, &reg.Raw); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal registration document")
		}
	}
	return reg, nil
}
