package model

// AllModels lists every model, in migration order.
func AllModels() []any {
	return []any{
		&MovementModel{},
		&DocumentModel{},
		&ReconciliationLinkModel{},
		&ImportedPaymentModel{},
	}
}
