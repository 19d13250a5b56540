package schema

// Grid places tables row by row so imported schemas render without overlap.
type Grid struct {
	StartX        float64 `yaml:"start_x" json:"start_x" mapstructure:"start_x"`
	StartY        float64 `yaml:"start_y" json:"start_y" mapstructure:"start_y"`
	ColumnsPerRow int     `yaml:"columns_per_row" json:"columns_per_row" mapstructure:"columns_per_row"`
	XGap          float64 `yaml:"x_gap" json:"x_gap" mapstructure:"x_gap"`
	YGap          float64 `yaml:"y_gap" json:"y_gap" mapstructure:"y_gap"`
}

// DefaultGrid matches the canvas' fixed table width of 288 units.
var DefaultGrid = Grid{StartX: 100, StartY: 100, ColumnsPerRow: 4, XGap: 360, YGap: 280}

// Place returns the position of the i-th table (0-based).
func (g Grid) Place(i int) Position {
	cols := g.ColumnsPerRow
	if cols <= 0 {
		cols = 1
	}
	return Position{
		X: g.StartX + float64(i%cols)*g.XGap,
		Y: g.StartY + float64(i/cols)*g.YGap,
	}
}

// Arrange assigns grid positions to every table in order.
func (g Grid) Arrange(tables []Table) {
	for i := range tables {
		tables[i].Position = g.Place(i)
	}
}

// OrDefault fills zero-valued fields from DefaultGrid.
func (g Grid) OrDefault() Grid {
	if g.ColumnsPerRow <= 0 {
		g.ColumnsPerRow = DefaultGrid.ColumnsPerRow
	}
	if g.XGap == 0 {
		g.XGap = DefaultGrid.XGap
	}
	if g.YGap == 0 {
		g.YGap = DefaultGrid.YGap
	}
	if g.StartX == 0 && g.StartY == 0 {
		g.StartX, g.StartY = DefaultGrid.StartX, DefaultGrid.StartY
	}
	return g
}
