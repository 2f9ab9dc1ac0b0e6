package models

// Category1 vocabulary. The authoritative closed set, including the allowed
// Category2 values per entry, lives in the rules tables; these constants
// exist so code never spells a category as a bare literal.
const (
	CategoryGroceries    = "Alimentación"
	CategoryRestaurants  = "Restaurantes"
	CategoryTransport    = "Transporte"
	CategoryShopping     = "Compras"
	CategoryHousehold    = "Hogar"
	CategoryHealth       = "Salud"
	CategoryLeisure      = "Ocio"
	CategorySalary       = "Nómina"
	CategoryIncome       = "Ingresos"
	CategoryTransfers    = "Transferencia"
	CategoryInvestment   = "Inversión"
	CategoryCash         = "Efectivo"
	CategoryFees         = "Comisiones"
	CategoryTaxes        = "Impuestos"
	CategoryInsurance    = "Seguros"
	CategoryEducation    = "Educación"
	CategoryGifts        = "Regalos"
	CategoryUnclassified = "unclassified"
)

// Category2 values for transfers. These carry the transfer detector's
// verdict: which kind of money movement this is.
const (
	TransferInternal = "Interna"
	TransferExternal = "Externa"
	TransferP2P      = "Bizum"
	TransferLoan     = "Préstamo"
	TransferShared   = "Compartida"
)

// CategoryOther is the coercion target the combination validator prefers
// when a layer emits a Category2 outside the allowed set.
const CategoryOther = "Otros"

// P2PMarker is the peer-to-peer marker token. Its presence anywhere in a
// description routes classification through the transfer detector.
const P2PMarker = "BIZUM"

// Bank identifiers as they appear in canonical records.
const (
	BankOpenBank  = "OpenBank"
	BankSantander = "Santander"
	BankEVO       = "EVO"
	BankING       = "ING"
	BankAbanca    = "Abanca"
	BankBBVA      = "BBVA"
)
