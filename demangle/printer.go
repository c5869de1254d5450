package demangle

import (
	"strconv"
	"strings"
)

// printer reconstructs C declarator syntax from the AST in two passes:
// writePre emits everything left of the declared name, writePost everything
// to the right. Array and function brackets bind tighter than pointer and
// reference sigils, so a Ptr/Ref wrapping a Function/Array is parenthesized.
type printer struct {
	buf  []byte
	last byte
}

func (p *printer) write(s string) {
	if len(s) == 0 {
		return
	}
	p.buf = append(p.buf, s...)
	p.last = s[len(s)-1]
}

// writeSpace separates two adjacent tokens when the preceding one ends in
// an identifier character or a template close. Sigils and punctuation bind
// to the next token without a space.
func (p *printer) writeSpace() {
	if isWordEnd(p.last) {
		p.write(" ")
	}
}

func isWordEnd(b byte) bool {
	return b == '_' || b == '>' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}

func (p *printer) str(sym *Symbol) string {
	p.writePre(sym.Type)
	p.writeSpace()
	p.writeName(sym.Name)
	p.writePost(sym.Type)
	return string(p.buf)
}

func (p *printer) writePre(t *Type) {
	switch t.Prim {
	case PrimUnknown, PrimNone:
		return

	case PrimFunction:
		if t.FuncClass&FCPublic != 0 {
			p.write("public: ")
		} else if t.FuncClass&FCProtected != 0 {
			p.write("protected: ")
		} else if t.FuncClass&FCPrivate != 0 {
			p.write("private: ")
		}
		if t.FuncClass&FCStatic != 0 {
			p.write("static ")
		}
		if t.FuncClass&FCVirtual != 0 {
			p.write("virtual ")
		}
		if t.Inner != nil {
			p.writePre(t.Inner)
		}
		if t.CallConv != CallCdecl {
			p.writeSpace()
			p.write(callingConvNames[t.CallConv])
		}
		// A member function's trailing const belongs after the parameter
		// list, in writePost.
		return

	case PrimPtr, PrimRef:
		p.writePre(t.Inner)
		p.writeSpace()
		if t.Inner.Prim == PrimFunction || t.Inner.Prim == PrimArray {
			p.write("(")
		}
		if t.Prim == PrimPtr {
			p.write("*")
		} else {
			p.write("&")
		}

	case PrimArray:
		p.writePre(t.Inner)

	case PrimStruct:
		p.write("struct ")
		p.writeName(t.Name)
	case PrimUnion:
		p.write("union ")
		p.writeName(t.Name)
	case PrimClass:
		p.write("class ")
		p.writeName(t.Name)
		if len(t.Params) > 0 {
			p.write("<")
			p.writeParams(t.Params)
			p.write(">")
		}
	case PrimEnum:
		p.write("enum ")
		p.writeName(t.Name)

	default:
		p.write(primNames[t.Prim])
	}

	if t.SClass&SCConst != 0 {
		p.writeSpace()
		p.write("const")
	}
}

func (p *printer) writePost(t *Type) {
	switch t.Prim {
	case PrimFunction:
		p.write("(")
		p.writeParams(t.Params)
		p.write(")")
		if t.SClass&SCConst != 0 {
			p.write(" const")
		}

	case PrimPtr, PrimRef:
		if t.Inner.Prim == PrimFunction || t.Inner.Prim == PrimArray {
			p.write(")")
		}
		p.writePost(t.Inner)

	case PrimArray:
		p.write("[")
		p.write(strconv.FormatInt(int64(t.Len), 10))
		p.write("]")
		p.writePost(t.Inner)
	}
}

func (p *printer) writeParams(params []*Type) {
	for i, t := range params {
		if i != 0 {
			p.write(",")
		}
		p.writePre(t)
		p.writePost(t)
	}
}

// writeName emits an innermost-first name list as outermost::...::innermost.
// The innermost fragment may be a structor marker: ?0 rewrites to the class
// constructor, ?1 to the destructor.
func (p *printer) writeName(names []*Name) {
	if len(names) == 0 {
		return
	}

	for i := len(names) - 1; i >= 1; i-- {
		p.write(names[i].Text)
		p.writeTemplateParams(names[i])
		p.write("::")
	}

	n := names[0]
	switch {
	case strings.HasPrefix(n.Text, "?0"):
		base := n.Text[2:]
		p.write(base)
		p.writeTemplateParams(n)
		p.write("::")
		p.write(base)
	case strings.HasPrefix(n.Text, "?1"):
		base := n.Text[2:]
		p.write(base)
		p.writeTemplateParams(n)
		p.write("::~")
		p.write(base)
	default:
		p.write(n.Text)
		p.writeTemplateParams(n)
	}
}

func (p *printer) writeTemplateParams(n *Name) {
	if len(n.Params) == 0 {
		return
	}
	p.write("<")
	p.writeParams(n.Params)
	p.write(">")
}
