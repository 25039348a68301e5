package mathlab

import (
	"strconv"
	"strings"
)

// node is a node in the abstract syntax tree of an expression.
type node struct {
	kind nodeKind

	name string
	fn   Func

	left  *node
	right *node
}

type nodeKind int8

const (
	nodeNone nodeKind = iota

	nodeNum  // push num
	nodeName // push lookup(name)

	nodeCall // name is Func to call, right is link to nodeArg unless niladic
	nodeArg  // name is "" or "," or ";", eval left, right is link to next arg

	nodeNeg // evaluate left, then negate
	nodeAdd // evaluate left, add right
	nodeSub // evaluate left, sub right
	nodeMul // evaluate left, mul right
	nodeDiv // evaluate left, div by right
	nodePow // evaluate left, exp by right
	nodeNop // evaluate left
)

var nodeKindNames = [...]string{
	nodeNone: "None",
	nodeNum:  "Num",
	nodeName: "Name",
	nodeCall: "Call",
	nodeArg:  "Arg",
	nodeNeg:  "Neg",
	nodeAdd:  "Add",
	nodeSub:  "Sub",
	nodeMul:  "Mul",
	nodeDiv:  "Div",
	nodePow:  "Pow",
	nodeNop:  "Nop",
}

func (k nodeKind) String() string {
	if k < 0 || int(k) >= len(nodeKindNames) {
		return "nodeKind(" + strconv.Itoa(int(k)) + ")"
	}
	return nodeKindNames[k]
}

// infix holds the plain and pretty spellings of binary operators.
var infix = map[nodeKind][2]string{
	nodeAdd: {" + ", " + "},
	nodeSub: {" - ", " - "},
	nodeMul: {" * ", " × "},
	nodeDiv: {" / ", " ÷ "},
	nodePow: {" ^ ", " ^ "},
}

func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b, false, false)
	return b.String()
}

// fmt writes n fully bracketed. Nesting levels alternate between round and
// square brackets so that deep trees stay readable. alt selects × and ÷.
func (n *node) fmt(b *strings.Builder, square, alt bool) {
	l, r := brackets(square)
	b.WriteByte(l)
	defer b.WriteByte(r)
	if op, ok := infix[n.kind]; ok {
		n.left.fmt(b, !square, alt)
		if alt {
			b.WriteString(op[1])
		} else {
			b.WriteString(op[0])
		}
		n.right.fmt(b, !square, alt)
		return
	}
	switch n.kind {
	case nodeNum, nodeName:
		b.WriteString(n.name)
	case nodeCall:
		b.WriteString(n.name)
		n.fmtargs(b, !square, alt)
	case nodeArg:
		// Args usually only appear inside calls, which are handled by fmtargs.
		b.WriteByte(':')
		n.left.fmt(b, !square, alt)
		if n.right != nil {
			n.right.fmt(b, !square, alt)
		}
	case nodeNeg:
		b.WriteByte('-')
		n.left.fmt(b, !square, alt)
	case nodeNop:
		b.WriteByte('+')
		n.left.fmt(b, !square, alt)
	default:
		// Invalid nodes use invalid characters.
		b.WriteByte('$')
		if n.left != nil {
			n.left.fmt(b, square, alt)
		}
		b.WriteByte('#')
		if n.right != nil {
			n.right.fmt(b, square, alt)
		}
		b.WriteByte('$')
	}
}

func (n *node) fmtargs(b *strings.Builder, square, alt bool) {
	l, r := brackets(square)
	b.WriteByte(l)
	defer b.WriteByte(r)
	for i, a := 0, n.right; a != nil; i, a = i+1, a.right {
		if a.kind != nodeArg {
			b.WriteString("***")
			a.fmt(b, !square, alt)
			return
		}
		if i > 0 {
			b.WriteString(", ")
		}
		a.left.fmt(b, !square, alt)
	}
}

func brackets(square bool) (byte, byte) {
	if square {
		return '[', ']'
	}
	return '(', ')'
}
