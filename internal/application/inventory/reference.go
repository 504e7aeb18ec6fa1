package inventory

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

// DefaultReferencePrefix prefijo de referencia si la configuración no define otro.
const DefaultReferencePrefix = "INV"

// SnowflakeReferenceGenerator genera referencias <prefijo>-<AAAAMMDD>-<id snowflake base36>.
// El id snowflake es monótono por nodo, por lo que dos sesiones nunca comparten referencia
// mientras cada instancia use un nodeID distinto.
type SnowflakeReferenceGenerator struct {
	node   *snowflake.Node
	prefix string
}

// NewSnowflakeReferenceGenerator construye el generador para el nodo indicado (0..1023).
func NewSnowflakeReferenceGenerator(nodeID int64, prefix string) (*SnowflakeReferenceGenerator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("snowflake node: %w", err)
	}
	if prefix == "" {
		prefix = DefaultReferencePrefix
	}
	return &SnowflakeReferenceGenerator{node: node, prefix: prefix}, nil
}

// Next devuelve una nueva referencia.
func (g *SnowflakeReferenceGenerator) Next(now time.Time) string {
	return fmt.Sprintf("%s-%s-%s", g.prefix, now.Format("20060102"), strings.ToUpper(g.node.Generate().Base36()))
}
