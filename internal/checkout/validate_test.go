package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampQuantity(t *testing.T) {
	tests := map[string]int{
		"":    0,
		" ":   0,
		"abc": 0,
		"0":   0,
		"-3":  0,
		"1":   1,
		"7":   7,
		"10":  10,
		"11":  10,
		"15":  10,
		" 4 ": 4,
	}
	for raw, want := range tests {
		assert.Equal(t, want, ClampQuantity(raw), "raw %q", raw)
	}
}

func TestValidatePhone(t *testing.T) {
	assert.NoError(t, ValidatePhone("254712345678"))
	assert.NoError(t, ValidatePhone("254112345678"))

	for _, bad := range []string{"0712345678", "25471234567", "2547123456789", "+25471234567", "", "712345678254"} {
		err := ValidatePhone(bad)
		if assert.Error(t, err, bad) {
			assert.Equal(t, MsgInvalidPhone, err.Error())
		}
	}
}

func TestForm_Validate(t *testing.T) {
	valid := Form{TierID: "t1", Quantity: 2, Phone: "254712345678", GuestName: "Jane Doe", GuestEmail: "jane@example.com"}
	assert.NoError(t, valid.Validate(true))

	tests := []struct {
		name  string
		edit  func(*Form)
		guest bool
		field string
	}{
		{"no tier", func(f *Form) { f.TierID = "" }, false, "tier_id"},
		{"zero quantity", func(f *Form) { f.Quantity = 0 }, false, "quantity"},
		{"bad phone", func(f *Form) { f.Phone = "0712345678" }, false, "phone_number"},
		{"guest email", func(f *Form) { f.GuestEmail = "jane.example.com" }, true, "email"},
		{"guest name", func(f *Form) { f.GuestName = "  " }, true, "name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid
			tt.edit(&f)
			err := f.Validate(tt.guest)
			var ve *ValidationError
			if assert.ErrorAs(t, err, &ve) {
				assert.Equal(t, tt.field, ve.Field)
			}
		})
	}

	// Guest fields are ignored for signed in buyers.
	member := valid
	member.GuestEmail, member.GuestName = "", ""
	assert.NoError(t, member.Validate(false))
}

func TestForm_Total(t *testing.T) {
	assert.Equal(t, 4500.0, Form{Price: 1500, Quantity: 3}.Total())
}
