package rbm

import (
	"fmt"

	"github.com/awalterschulze/gographviz"
	"github.com/chewxy/math32"
	"gorgonia.org/tensor/native"
)

// ToDot renders the factor graph: one node per unit group, one per factor, and an edge from every
// group to every factor labelled with the norm of that factor's column in the group's factor matrix.
func ToDot(p *Params) string {
	g := gographviz.NewGraph()
	if err := g.SetName("FactoredRBM"); err != nil {
		panic(err)
	}
	g.SetDir(false)

	groups := []struct {
		name string
		size int
		w    [][]float32
	}{
		{"v1", p.V1, nil},
		{"h", p.H, nil},
		{"v2", p.V2, nil},
	}
	var err error
	if groups[0].w, err = native.MatrixF32(p.Wv1); err != nil {
		panic(err)
	}
	if groups[1].w, err = native.MatrixF32(p.Wh); err != nil {
		panic(err)
	}
	if groups[2].w, err = native.MatrixF32(p.Wv2); err != nil {
		panic(err)
	}

	for _, grp := range groups {
		g.AddNode("FactoredRBM", grp.name, map[string]string{
			"shape": "box",
			"label": fmt.Sprintf("\"%s (%d)\"", grp.name, grp.size),
		})
	}
	for f := 0; f < p.Factors; f++ {
		name := fmt.Sprintf("f%d", f)
		g.AddNode("FactoredRBM", name, map[string]string{
			"shape": "circle",
			"label": fmt.Sprintf("\"%s\"", name),
		})
		for _, grp := range groups {
			var norm float32
			for _, row := range grp.w {
				norm += row[f] * row[f]
			}
			g.AddEdge(grp.name, name, false, map[string]string{
				"label": fmt.Sprintf("\"%.3f\"", math32.Sqrt(norm)),
			})
		}
	}
	return g.String()
}
