package palette

import "github.com/lucasb-eyer/go-colorful"

var tables = map[string][]colorful.Color{
	"viridis": hexes(
		"#440154", "#482878", "#3e4989", "#31688e", "#26828e",
		"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725",
	),
	"magma": hexes(
		"#000004", "#180f3d", "#440f76", "#721f81", "#9e2f7f",
		"#cd4071", "#f1605d", "#fd9668", "#feca8d", "#fcfdbf",
	),
	"inferno": hexes(
		"#000004", "#1b0c41", "#4a0c6b", "#781c6d", "#a52c60",
		"#cf4446", "#ed6925", "#fb9b06", "#f7d13d", "#fcffa4",
	),
	"plasma": hexes(
		"#0d0887", "#46039f", "#7201a8", "#9c179e", "#bd3786",
		"#d8576b", "#ed7953", "#fb9f3a", "#fdca26", "#f0f921",
	),
	"jet": hexes(
		"#00007f", "#0000ff", "#007fff", "#00ffff", "#7fff7f",
		"#ffff00", "#ff7f00", "#ff0000", "#7f0000",
	),
	"greys": hexes(
		"#ffffff", "#f0f0f0", "#d9d9d9", "#bdbdbd", "#969696",
		"#737373", "#525252", "#252525", "#000000",
	),
	"blues": hexes(
		"#f7fbff", "#deebf7", "#c6dbef", "#9ecae1", "#6baed6",
		"#4292c6", "#2171b5", "#08519c", "#08306b",
	),
	"reds": hexes(
		"#fff5f0", "#fee0d2", "#fcbba1", "#fc9272", "#fb6a4a",
		"#ef3b2c", "#cb181d", "#a50f15", "#67000d",
	),
	"rdbu": hexes(
		"#67001f", "#b2182b", "#d6604d", "#f4a582", "#fddbc7", "#f7f7f7",
		"#d1e5f0", "#92c5de", "#4393c3", "#2166ac", "#053061",
	),
	"spectral": hexes(
		"#9e0142", "#d53e4f", "#f46d43", "#fdae61", "#fee08b", "#ffffbf",
		"#e6f598", "#abdda4", "#66c2a5", "#3288bd", "#5e4fa2",
	),
}

func hexes(specs ...string) []colorful.Color {
	out := make([]colorful.Color, len(specs))
	for i, s := range specs {
		c, err := colorful.Hex(s)
		if err != nil {
			panic(err)
		}
		out[i] = c
	}
	return out
}
