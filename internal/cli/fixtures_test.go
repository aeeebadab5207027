package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const shopScript = `id: shop
startNodeId: greet
nodes:
  greet:
    content: greeting
    lineId: line_greet
    next: offer
  offer:
    choices:
      - id: buy
        lineId: line_buy
        next: pay
      - id: leave
        lineId: line_leave
        next: bye
  pay:
    content: "/set $stat_gold 80"
    next: bye
  bye:
    content: farewell
    lineId: line_bye
`

const shopLines = `en:
  line_greet: "Welcome to the shop!"
  line_buy: "Buy a sword"
  line_leave: "Leave"
  line_bye: "Come again."
es:
  line_greet: "¡Bienvenido a la tienda!"
  line_buy: "Compra una espada"
  line_leave: "Salir"
  line_bye: "Vuelve pronto."
`

// writeFixture writes content to a fresh temp file and returns its path.
func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
