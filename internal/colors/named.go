package colors

// namedColors is the closed set of accepted CSS color keywords,
// including "transparent".
// Full list: https://developer.mozilla.org/en-US/docs/Web/CSS/named-color
var namedColors = map[string]struct{}{
	"transparent":          {},
	"aliceblue":            {},
	"antiquewhite":         {},
	"aqua":                 {},
	"aquamarine":           {},
	"azure":                {},
	"beige":                {},
	"bisque":               {},
	"black":                {},
	"blanchedalmond":       {},
	"blue":                 {},
	"blueviolet":           {},
	"brown":                {},
	"burlywood":            {},
	"cadetblue":            {},
	"chartreuse":           {},
	"chocolate":            {},
	"coral":                {},
	"cornflowerblue":       {},
	"cornsilk":             {},
	"crimson":              {},
	"cyan":                 {},
	"darkblue":             {},
	"darkcyan":             {},
	"darkgoldenrod":        {},
	"darkgray":             {},
	"darkgrey":             {},
	"darkgreen":            {},
	"darkkhaki":            {},
	"darkmagenta":          {},
	"darkolivegreen":       {},
	"darkorange":           {},
	"darkorchid":           {},
	"darkred":              {},
	"darksalmon":           {},
	"darkseagreen":         {},
	"darkslateblue":        {},
	"darkslategray":        {},
	"darkslategrey":        {},
	"darkturquoise":        {},
	"darkviolet":           {},
	"deeppink":             {},
	"deepskyblue":          {},
	"dimgray":              {},
	"dimgrey":              {},
	"dodgerblue":           {},
	"firebrick":            {},
	"floralwhite":          {},
	"forestgreen":          {},
	"fuchsia":              {},
	"gainsboro":            {},
	"ghostwhite":           {},
	"gold":                 {},
	"goldenrod":            {},
	"gray":                 {},
	"grey":                 {},
	"green":                {},
	"greenyellow":          {},
	"honeydew":             {},
	"hotpink":              {},
	"indianred":            {},
	"indigo":               {},
	"ivory":                {},
	"khaki":                {},
	"lavender":             {},
	"lavenderblush":        {},
	"lawngreen":            {},
	"lemonchiffon":         {},
	"lightblue":            {},
	"lightcoral":           {},
	"lightcyan":            {},
	"lightgoldenrodyellow": {},
	"lightgray":            {},
	"lightgrey":            {},
	"lightgreen":           {},
	"lightpink":            {},
	"lightsalmon":          {},
	"lightseagreen":        {},
	"lightskyblue":         {},
	"lightslategray":       {},
	"lightslategrey":       {},
	"lightsteelblue":       {},
	"lightyellow":          {},
	"lime":                 {},
	"limegreen":            {},
	"linen":                {},
	"magenta":              {},
	"maroon":               {},
	"mediumaquamarine":     {},
	"mediumblue":           {},
	"mediumorchid":         {},
	"mediumpurple":         {},
	"mediumseagreen":       {},
	"mediumslateblue":      {},
	"mediumspringgreen":    {},
	"mediumturquoise":      {},
	"mediumvioletred":      {},
	"midnightblue":         {},
	"mintcream":            {},
	"mistyrose":            {},
	"moccasin":             {},
	"navajowhite":          {},
	"navy":                 {},
	"oldlace":              {},
	"olive":                {},
	"olivedrab":            {},
	"orange":               {},
	"orangered":            {},
	"orchid":               {},
	"palegoldenrod":        {},
	"palegreen":            {},
	"paleturquoise":        {},
	"palevioletred":        {},
	"papayawhip":           {},
	"peachpuff":            {},
	"peru":                 {},
	"pink":                 {},
	"plum":                 {},
	"powderblue":           {},
	"purple":               {},
	"red":                  {},
	"rosybrown":            {},
	"royalblue":            {},
	"saddlebrown":          {},
	"salmon":               {},
	"sandybrown":           {},
	"seagreen":             {},
	"seashell":             {},
	"sienna":               {},
	"silver":               {},
	"skyblue":              {},
	"slateblue":            {},
	"slategray":            {},
	"slategrey":            {},
	"snow":                 {},
	"springgreen":          {},
	"steelblue":            {},
	"tan":                  {},
	"teal":                 {},
	"thistle":              {},
	"tomato":               {},
	"turquoise":            {},
	"violet":               {},
	"wheat":                {},
	"white":                {},
	"whitesmoke":           {},
	"yellow":               {},
	"yellowgreen":          {},
}
