package rules

import (
	"amunoz/movimientos/internal/models"
)

// Built-in tables, used when no rules directory is configured and as the
// base the YAML files extend. These mirror the shipped config/*.yaml files;
// keep both in sync when adding categories.

// DefaultCombinations is the closed cat1→cat2 whitelist, in coercion order.
func DefaultCombinations() CombinationTable {
	return CombinationTable{
		models.CategoryGroceries:   {"", "Mercadona", "Carrefour", "Lidl", "Dia", "Alcampo", "Eroski", models.CategoryOther},
		models.CategoryRestaurants: {"", "Restaurante", "Cafetería", "Comida a domicilio", "Bar", models.CategoryOther},
		models.CategoryTransport:   {"", "Gasolina", "Parking", "Taxi", "Transporte público", "Peaje", models.CategoryOther},
		models.CategoryShopping:    {"", "Amazon", "Ropa", "Electrónica", "Deporte", models.CategoryOther},
		models.CategoryHousehold:   {"", "Alquiler", "Hipoteca", "Luz", "Agua", "Gas", "Internet", "Móvil", "Comunidad", "Muebles", models.CategoryOther},
		models.CategoryHealth:      {"", "Farmacia", "Médico", "Dentista", "Óptica", models.CategoryOther},
		models.CategoryLeisure:     {"", "Cine", "Suscripciones", "Deporte", "Libros", "Viajes", models.CategoryOther},
		models.CategorySalary:      {"", "Pagas extra"},
		models.CategoryIncome:      {"", "Devolución", "Intereses", "Bizum recibido", models.CategoryOther},
		models.CategoryTransfers: {
			"",
			models.TransferInternal,
			models.TransferExternal,
			models.TransferP2P,
			models.TransferLoan,
			models.TransferShared,
		},
		models.CategoryInvestment:   {"", "Aportación", "Fondos", "Acciones", "Traspaso", models.CategoryOther},
		models.CategoryCash:         {"", "Cajero"},
		models.CategoryFees:         {"", "Banco", models.CategoryOther},
		models.CategoryTaxes:        {"", "IRPF", "IBI", models.CategoryOther},
		models.CategoryInsurance:    {"", "Coche", "Hogar", "Vida", "Salud", models.CategoryOther},
		models.CategoryEducation:    {"", models.CategoryOther},
		models.CategoryGifts:        {"", models.CategoryOther},
		models.CategoryUnclassified: {""},
	}
}

// DefaultCategoryTypes maps category1 to its default semantic type. The
// unclassified category stays untyped.
func DefaultCategoryTypes() map[string]models.TxType {
	return map[string]models.TxType{
		models.CategoryGroceries:   models.TypeExpense,
		models.CategoryRestaurants: models.TypeExpense,
		models.CategoryTransport:   models.TypeExpense,
		models.CategoryShopping:    models.TypeExpense,
		models.CategoryHousehold:   models.TypeExpense,
		models.CategoryHealth:      models.TypeExpense,
		models.CategoryLeisure:     models.TypeExpense,
		models.CategorySalary:      models.TypeIncome,
		models.CategoryIncome:      models.TypeIncome,
		models.CategoryTransfers:   models.TypeTransfer,
		models.CategoryInvestment:  models.TypeInvestment,
		models.CategoryCash:        models.TypeExpense,
		models.CategoryFees:        models.TypeExpense,
		models.CategoryTaxes:       models.TypeExpense,
		models.CategoryInsurance:   models.TypeExpense,
		models.CategoryEducation:   models.TypeExpense,
		models.CategoryGifts:       models.TypeExpense,
	}
}

// DefaultMerchantRules is the ordered keyword table for merchant lookup.
// Specific chains come before generic tokens.
func DefaultMerchantRules() []MerchantRule {
	return []MerchantRule{
		// Supermarkets
		{Keyword: "MERCADONA", Category1: models.CategoryGroceries, Category2: "Mercadona"},
		{Keyword: "CARREFOUR EXPRESS", Category1: models.CategoryGroceries, Category2: "Carrefour"},
		{Keyword: "CARREFOUR", Category1: models.CategoryGroceries, Category2: "Carrefour"},
		{Keyword: "LIDL", Category1: models.CategoryGroceries, Category2: "Lidl"},
		{Keyword: "SUPERMERCADOS DIA", Category1: models.CategoryGroceries, Category2: "Dia"},
		{Keyword: "ALCAMPO", Category1: models.CategoryGroceries, Category2: "Alcampo"},
		{Keyword: "EROSKI", Category1: models.CategoryGroceries, Category2: "Eroski"},
		{Keyword: "FRUTERIA", Category1: models.CategoryGroceries, Category2: models.CategoryOther},
		{Keyword: "CARNICERIA", Category1: models.CategoryGroceries, Category2: models.CategoryOther},
		{Keyword: "PANADERIA", Category1: models.CategoryGroceries, Category2: models.CategoryOther},

		// Restaurants; specific chains before the generic tokens
		{Keyword: "TELEPIZZA", Category1: models.CategoryRestaurants, Category2: "Comida a domicilio"},
		{Keyword: "GLOVO", Category1: models.CategoryRestaurants, Category2: "Comida a domicilio"},
		{Keyword: "JUST EAT", Category1: models.CategoryRestaurants, Category2: "Comida a domicilio"},
		{Keyword: "UBER EATS", Category1: models.CategoryRestaurants, Category2: "Comida a domicilio"},
		{Keyword: "MCDONALD", Category1: models.CategoryRestaurants, Category2: "Restaurante"},
		{Keyword: "BURGER KING", Category1: models.CategoryRestaurants, Category2: "Restaurante"},
		{Keyword: "100 MONTADITOS", Category1: models.CategoryRestaurants, Category2: "Bar"},
		{Keyword: "RESTAURANTE", Category1: models.CategoryRestaurants, Category2: "Restaurante"},
		{Keyword: "CAFETERIA", Category1: models.CategoryRestaurants, Category2: "Cafetería"},
		{Keyword: "STARBUCKS", Category1: models.CategoryRestaurants, Category2: "Cafetería"},

		// Shopping
		{Keyword: "AMAZON", Category1: models.CategoryShopping, Category2: "Amazon"},
		{Keyword: "AMZN", Category1: models.CategoryShopping, Category2: "Amazon"},
		{Keyword: "EL CORTE INGLES", Category1: models.CategoryShopping, Category2: models.CategoryOther},
		{Keyword: "ZARA", Category1: models.CategoryShopping, Category2: "Ropa"},
		{Keyword: "PRIMARK", Category1: models.CategoryShopping, Category2: "Ropa"},
		{Keyword: "DECATHLON", Category1: models.CategoryShopping, Category2: "Deporte"},
		{Keyword: "MEDIA MARKT", Category1: models.CategoryShopping, Category2: "Electrónica"},
		{Keyword: "PC COMPONENTES", Category1: models.CategoryShopping, Category2: "Electrónica"},
		{Keyword: "IKEA", Category1: models.CategoryHousehold, Category2: "Muebles"},
		{Keyword: "LEROY MERLIN", Category1: models.CategoryHousehold, Category2: models.CategoryOther},

		// Transport
		{Keyword: "REPSOL", Category1: models.CategoryTransport, Category2: "Gasolina"},
		{Keyword: "CEPSA", Category1: models.CategoryTransport, Category2: "Gasolina"},
		{Keyword: "GALP", Category1: models.CategoryTransport, Category2: "Gasolina"},
		{Keyword: "RENFE", Category1: models.CategoryTransport, Category2: "Transporte público"},
		{Keyword: "METRO DE MADRID", Category1: models.CategoryTransport, Category2: "Transporte público"},
		{Keyword: "EMT MADRID", Category1: models.CategoryTransport, Category2: "Transporte público"},
		{Keyword: "CABIFY", Category1: models.CategoryTransport, Category2: "Taxi"},
		{Keyword: "UBER", Category1: models.CategoryTransport, Category2: "Taxi"},
		{Keyword: "FREE NOW", Category1: models.CategoryTransport, Category2: "Taxi"},
		{Keyword: "AUTOPISTA", Category1: models.CategoryTransport, Category2: "Peaje"},
		{Keyword: "PARKING", Category1: models.CategoryTransport, Category2: "Parking"},

		// Health
		{Keyword: "FARMACIA", Category1: models.CategoryHealth, Category2: "Farmacia"},
		{Keyword: "CLINICA", Category1: models.CategoryHealth, Category2: "Médico"},
		{Keyword: "GENERAL OPTICA", Category1: models.CategoryHealth, Category2: "Óptica"},

		// Utilities and subscriptions
		{Keyword: "IBERDROLA", Category1: models.CategoryHousehold, Category2: "Luz"},
		{Keyword: "ENDESA", Category1: models.CategoryHousehold, Category2: "Luz"},
		{Keyword: "NATURGY", Category1: models.CategoryHousehold, Category2: "Gas"},
		{Keyword: "CANAL DE ISABEL II", Category1: models.CategoryHousehold, Category2: "Agua"},
		{Keyword: "MOVISTAR", Category1: models.CategoryHousehold, Category2: "Internet"},
		{Keyword: "VODAFONE", Category1: models.CategoryHousehold, Category2: "Móvil"},
		{Keyword: "ORANGE", Category1: models.CategoryHousehold, Category2: "Móvil"},
		{Keyword: "NETFLIX", Category1: models.CategoryLeisure, Category2: "Suscripciones"},
		{Keyword: "SPOTIFY", Category1: models.CategoryLeisure, Category2: "Suscripciones"},
		{Keyword: "HBO", Category1: models.CategoryLeisure, Category2: "Suscripciones"},
		{Keyword: "DISNEY PLUS", Category1: models.CategoryLeisure, Category2: "Suscripciones"},

		// Insurance
		{Keyword: "MAPFRE", Category1: models.CategoryInsurance, Category2: models.CategoryOther},
		{Keyword: "MUTUA MADRILEÑA", Category1: models.CategoryInsurance, Category2: "Coche"},
		{Keyword: "LINEA DIRECTA", Category1: models.CategoryInsurance, Category2: "Coche"},
		{Keyword: "ADESLAS", Category1: models.CategoryInsurance, Category2: "Salud"},
		{Keyword: "SANITAS", Category1: models.CategoryInsurance, Category2: "Salud"},

		// Investment platforms
		{Keyword: "INDEXA CAPITAL", Category1: models.CategoryInvestment, Category2: "Fondos"},
		{Keyword: "MYINVESTOR", Category1: models.CategoryInvestment, Category2: "Fondos"},
		{Keyword: "DEGIRO", Category1: models.CategoryInvestment, Category2: "Acciones"},

		// Generic food tokens last: the specific chains above must win
		{Keyword: "PIZZERIA", Category1: models.CategoryRestaurants, Category2: "Restaurante"},
		{Keyword: "KEBAB", Category1: models.CategoryRestaurants, Category2: "Restaurante"},
		{Keyword: "SUPERMERCADO", Category1: models.CategoryGroceries, Category2: models.CategoryOther},
	}
}

// DefaultTokenRules is the last-resort ordered keyword table. Short tokens
// carry WholeWord so "BAR" never matches inside "BARCELONA".
func DefaultTokenRules() []TokenRule {
	return []TokenRule{
		{Keyword: "NOMINA", Category1: models.CategorySalary},
		{Keyword: "PAGA EXTRA", Category1: models.CategorySalary, Category2: "Pagas extra"},
		{Keyword: "DEVOLUCION", Category1: models.CategoryIncome, Category2: "Devolución"},
		{Keyword: "ABONO INTERESES", Category1: models.CategoryIncome, Category2: "Intereses"},
		{Keyword: "RETIRADA EFECTIVO", Category1: models.CategoryCash, Category2: "Cajero"},
		{Keyword: "CAJERO", Category1: models.CategoryCash, Category2: "Cajero"},
		{Keyword: "COMISION", Category1: models.CategoryFees, Category2: "Banco"},
		{Keyword: "MANTENIMIENTO CUENTA", Category1: models.CategoryFees, Category2: "Banco"},
		{Keyword: "AGENCIA TRIBUTARIA", Category1: models.CategoryTaxes},
		{Keyword: "IRPF", Category1: models.CategoryTaxes, Category2: "IRPF"},
		{Keyword: "ALQUILER", Category1: models.CategoryHousehold, Category2: "Alquiler"},
		{Keyword: "HIPOTECA", Category1: models.CategoryHousehold, Category2: "Hipoteca"},
		{Keyword: "COMUNIDAD PROPIETARIOS", Category1: models.CategoryHousehold, Category2: "Comunidad"},
		{Keyword: "SEGURO", Category1: models.CategoryInsurance},
		{Keyword: "GIMNASIO", Category1: models.CategoryLeisure, Category2: "Deporte"},
		{Keyword: "CINE", Category1: models.CategoryLeisure, Category2: "Cine", WholeWord: true},
		{Keyword: "HOTEL", Category1: models.CategoryLeisure, Category2: "Viajes"},
		{Keyword: "VUELING", Category1: models.CategoryLeisure, Category2: "Viajes"},
		{Keyword: "RYANAIR", Category1: models.CategoryLeisure, Category2: "Viajes"},
		{Keyword: "BAR", Category1: models.CategoryRestaurants, Category2: "Bar", WholeWord: true},
		{Keyword: "GAS", Category1: models.CategoryHousehold, Category2: "Gas", WholeWord: true},
	}
}

// DefaultTransferRules configures the transfer detector for the supported
// banks. IBANs and holder names here are placeholders the user's rules
// directory overrides.
func DefaultTransferRules() TransferRules {
	return TransferRules{
		InternalKeywords: map[string][]string{
			models.BankOpenBank:  {"TRASPASO A CUENTA AHORRO", "TRASPASO DESDE CUENTA AHORRO", "TRASPASO PERIODICO"},
			models.BankEVO:       {"TRASPASO CUENTA INTELIGENTE", "APORTACION CUENTA DUO"},
			models.BankSantander: {"TRASPASO ENTRE CUENTAS"},
			models.BankING:       {"TRASPASO CUENTA NARANJA", "TRASPASO CUENTA NOMINA"},
		},
		P2PPatterns: map[string][]string{
			// OpenBank renders person-to-person transfers with the
			// counterparty name after a fixed preamble.
			models.BankOpenBank: {`(?i)^TRANSFERENCIA DE [A-ZÁÉÍÓÚÑ ]+ CONCEPTO`},
			// Spanish mobile numbers embedded in EVO transfer lines.
			models.BankEVO: {`\b[67]\d{8}\b`},
		},
		LoanCounterparties: nil,
		SharedMarkers:      []string{"CUENTA COMUN", "GASTOS COMUNES"},
		OwnPhrases:         []string{"TRASPASO A CUENTA PROPIA", "TRASPASO ENTRE CUENTAS PROPIAS", "A MI CUENTA"},
		OwnIBANs:           nil,
		HolderNames:        nil,
		GenericKeywords:    []string{"TRANSFERENCIA", "TRANSF.", "TRANSF ", "TRASPASO"},
	}
}

// DefaultTables assembles the built-in table set with empty enrichment
// dictionaries and exact-match table.
func DefaultTables() *Tables {
	return &Tables{
		Priority:      nil,
		Merchant:      DefaultMerchantRules(),
		Token:         DefaultTokenRules(),
		Combinations:  DefaultCombinations(),
		CategoryTypes: DefaultCategoryTypes(),
		Transfer:      DefaultTransferRules(),
		Places:        map[string]CategoryPair{},
		MerchantNames: map[string]CategoryPair{},
		ExactMatch:    map[string]CategoryPair{},
	}
}
