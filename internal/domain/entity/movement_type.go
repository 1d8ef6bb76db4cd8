package entity

// MovementType es el tipo de movimiento del libro de inventario.
// Conjunto cerrado: cada tipo normal tiene su variante de reverso, de modo
// que anular un documento contabilizado siempre produce un tipo válido.
type MovementType string

const (
	MovementReceipt       MovementType = "receipt"        // recepción de mercancía
	MovementIssue         MovementType = "issue"          // salida por orden (venta/cocina)
	MovementAdjustment    MovementType = "adjustment"     // ajuste (conteo, merma, corrección)
	MovementTransferOut   MovementType = "transfer_out"   // salida por traslado
	MovementTransferIn    MovementType = "transfer_in"    // entrada por traslado
	MovementProductionOut MovementType = "production_out" // consumo de insumos en producción
	MovementProductionIn  MovementType = "production_in"  // entrada de producto terminado

	MovementReceiptReversal       MovementType = "receipt_reversal"
	MovementIssueReversal         MovementType = "issue_reversal"
	MovementAdjustmentReversal    MovementType = "adjustment_reversal"
	MovementTransferOutReversal   MovementType = "transfer_out_reversal"
	MovementTransferInReversal    MovementType = "transfer_in_reversal"
	MovementProductionOutReversal MovementType = "production_out_reversal"
	MovementProductionInReversal  MovementType = "production_in_reversal"
)

// reversalByType mapea cada tipo normal a su variante de reverso.
// Agregar un tipo nuevo sin su entrada aquí hace fallar Valid() y ReversalOf(),
// lo que los tests de mapeo detectan de inmediato.
var reversalByType = map[MovementType]MovementType{
	MovementReceipt:       MovementReceiptReversal,
	MovementIssue:         MovementIssueReversal,
	MovementAdjustment:    MovementAdjustmentReversal,
	MovementTransferOut:   MovementTransferOutReversal,
	MovementTransferIn:    MovementTransferInReversal,
	MovementProductionOut: MovementProductionOutReversal,
	MovementProductionIn:  MovementProductionInReversal,
}

// Valid informa si el tipo pertenece al conjunto cerrado (normal o reverso).
func (t MovementType) Valid() bool {
	if _, ok := reversalByType[t]; ok {
		return true
	}
	for _, rev := range reversalByType {
		if rev == t {
			return true
		}
	}
	return false
}

// IsReversal informa si el tipo es una variante de reverso.
func (t MovementType) IsReversal() bool {
	for _, rev := range reversalByType {
		if rev == t {
			return true
		}
	}
	return false
}

// ReversalOf devuelve el tipo compensatorio: el reverso de un tipo normal,
// o el tipo normal si se reversa un reverso. ok=false para tipos desconocidos.
func (t MovementType) ReversalOf() (MovementType, bool) {
	if rev, ok := reversalByType[t]; ok {
		return rev, true
	}
	for base, rev := range reversalByType {
		if rev == t {
			return base, true
		}
	}
	return "", false
}

// Inbound informa si el tipo normalmente aumenta existencias (crea capa de costo).
// Para MovementAdjustment y su reverso decide el signo de la cantidad, no el tipo.
func (t MovementType) Inbound() bool {
	switch t {
	case MovementReceipt, MovementTransferIn, MovementProductionIn,
		MovementIssueReversal, MovementTransferOutReversal, MovementProductionOutReversal:
		return true
	}
	return false
}

// Outbound informa si el tipo normalmente disminuye existencias (consume capas FIFO).
func (t MovementType) Outbound() bool {
	switch t {
	case MovementIssue, MovementTransferOut, MovementProductionOut,
		MovementReceiptReversal, MovementTransferInReversal, MovementProductionInReversal:
		return true
	}
	return false
}
