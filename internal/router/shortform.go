package router

import (
	"fmt"
	"strconv"
	"strings"

	"go-chainmap/internal/connectiondb"
	"go-chainmap/internal/graph"
	"go-chainmap/internal/refdata"
)

func systemName(refDB *refdata.DB, id int) string {
	if sys := refDB.System(id); sys != nil {
		return sys.Name
	}
	return strconv.Itoa(id)
}

func shortFormSingle(refDB *refdata.DB, id int) string {
	return fmt.Sprintf("Short Circuit: `%s`", systemName(refDB, id))
}

// renderShortForm collapses consecutive gate jumps into "..." and names each
// wormhole traversal with its entry-side signature, per spec.md 4.3.
// prevEdge maps each non-source path system to the edge used to enter it,
// as recorded during the Dijkstra relaxation that produced path.
func renderShortForm(refDB *refdata.DB, path []int, prevEdge map[int]graph.Edge) string {
	if len(path) == 0 {
		return "path not found"
	}
	if len(path) == 1 {
		return shortFormSingle(refDB, path[0])
	}

	tokens := []string{systemName(refDB, path[0])}
	ops := []string{}

	i := 0
	n := len(path)
	for i < n-1 {
		edge := prevEdge[path[i+1]]
		if edge.Kind == connectiondb.Wormhole {
			tokens[len(tokens)-1] = fmt.Sprintf("%s [%s]", tokens[len(tokens)-1], edge.Wormhole.Sig)
			ops = append(ops, "~~>")
			tokens = append(tokens, systemName(refDB, path[i+1]))
			i++
			continue
		}

		start := i
		for i < n-1 && prevEdge[path[i+1]].Kind == connectiondb.Gate {
			i++
		}
		if i-start == 1 {
			ops = append(ops, "-->")
		} else {
			ops = append(ops, "...")
		}
		tokens = append(tokens, systemName(refDB, path[i]))
	}

	var b strings.Builder
	b.WriteString("Short Circuit: `")
	for idx, tok := range tokens {
		if idx > 0 {
			b.WriteString(" ")
			b.WriteString(ops[idx-1])
			b.WriteString(" ")
		}
		b.WriteString(tok)
	}
	b.WriteString("`")
	return b.String()
}
