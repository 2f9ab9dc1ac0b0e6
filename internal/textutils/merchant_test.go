package textutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractMerchant(t *testing.T) {
	tests := []struct {
		name        string
		description string
		bank        string
		expected    string
	}{
		{
			name:        "card purchase with terminator",
			description: "COMPRA EN MERCADONA, CON LA TARJETA 1234",
			bank:        "OpenBank",
			expected:    "MERCADONA",
		},
		{
			name:        "internet purchase without terminator",
			description: "COMPRA INTERNET EN AMAZON ES",
			bank:        "OpenBank",
			expected:    "AMAZON ES",
		},
		{
			name:        "santander mobile payment",
			description: "PAGO MOVIL EN FARMACIA LOPEZ, TARJ. 5402XXXXXXXX1234",
			bank:        "Santander",
			expected:    "FARMACIA LOPEZ",
		},
		{
			name:        "evo card purchase",
			description: "COMPRA TARJ. 4599XX EN LIDL MADRID",
			bank:        "EVO",
			expected:    "LIDL MADRID",
		},
		{
			name:        "embedded card number stripped",
			description: "COMPRA EN DIA 5402XX88 MADRID, CON LA TARJETA 1234",
			bank:        "OpenBank",
			expected:    "DIA MADRID",
		},
		{
			name:        "trailing punctuation stripped",
			description: "COMPRA EN CARREFOUR,",
			bank:        "OpenBank",
			expected:    "CARREFOUR",
		},
		{
			name:        "no pattern matches",
			description: "TRANSFERENCIA A FAVOR DE JUAN PEREZ",
			bank:        "OpenBank",
			expected:    "",
		},
		{
			name:        "empty description",
			description: "",
			bank:        "EVO",
			expected:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractMerchant(tt.description, tt.bank))
		})
	}
}

func TestExtractMerchantIsPure(t *testing.T) {
	desc := "COMPRA EN MERCADONA, CON LA TARJETA 1234"
	first := ExtractMerchant(desc, "OpenBank")
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, ExtractMerchant(desc, "OpenBank"))
	}
}
