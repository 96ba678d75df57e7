package sitechat_test

import (
	"testing"

	"github.com/fwojciec/sitechat"
	"github.com/stretchr/testify/assert"
)

func TestHandoffValidate(t *testing.T) {
	t.Parallel()

	t.Run("accepts any single field", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, (&sitechat.Handoff{Email: "a@example.com"}).Validate())
		assert.NoError(t, (&sitechat.Handoff{Summary: "needs pricing help"}).Validate())
	})

	t.Run("rejects a fully empty handoff", func(t *testing.T) {
		t.Parallel()

		err := (&sitechat.Handoff{}).Validate()

		assert.Equal(t, sitechat.EINVALID, sitechat.ErrorCode(err))
	})
}

func TestFormatHandoff(t *testing.T) {
	t.Parallel()

	t.Run("renders all provided fields", func(t *testing.T) {
		t.Parallel()

		h := &sitechat.Handoff{
			Name:    "Ada",
			Email:   "ada@example.com",
			Phone:   "+1 555 0100",
			Summary: "wants a demo",
		}

		expected := "New support handoff request\n" +
			"Name: Ada\n" +
			"Email: ada@example.com\n" +
			"Phone: +1 555 0100\n" +
			"Summary: wants a demo"
		assert.Equal(t, expected, sitechat.FormatHandoff(h))
	})

	t.Run("omits empty fields", func(t *testing.T) {
		t.Parallel()

		h := &sitechat.Handoff{Email: "ada@example.com"}

		assert.Equal(t, "New support handoff request\nEmail: ada@example.com", sitechat.FormatHandoff(h))
	})
}
