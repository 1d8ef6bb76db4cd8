package entity

// Estados de los documentos de negocio que mutan inventario.
// La transición draft -> posted es atómica (protocolo de contabilización);
// posted -> void reversa exactamente el efecto del documento.
const (
	DocStatusDraft  = "draft"
	DocStatusPosted = "posted"
	DocStatusVoid   = "void"
)
