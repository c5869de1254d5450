package demangle

import (
	"github.com/skdltmxn/undname-go/internal/cursor"
)

// maxDepth bounds recursion through readVarType/readParams so pathological
// inputs fail instead of exhausting the stack.
const maxDepth = 256

// backrefMax is the capacity of both back-reference tables; the scheme
// indexes them with a single decimal digit.
const backrefMax = 10

// demangler holds all state for one parse: the cursor, the node arena, the
// back-reference tables, and the first error. Nothing is shared across
// parses.
type demangler struct {
	cur   *cursor.Cursor
	arena arena
	err   error
	depth int

	nameBackrefs []string
	typeBackrefs []*Type
}

func newDemangler(input string) *demangler {
	return &demangler{cur: cursor.New(input)}
}

// fail records the first error; later parser actions short-circuit on it.
func (d *demangler) fail(sentinel error, msg string) {
	if d.err == nil {
		d.err = &ParseError{Offset: d.cur.Pos(), Message: msg, Err: sentinel}
	}
}

func (d *demangler) expect(literal string) {
	if d.err != nil {
		return
	}
	if !d.cur.Consume(literal) {
		d.fail(ErrUnmetExpectation, "expected "+literal)
	}
}

// parse consumes the whole symbol and returns its AST.
func (d *demangler) parse() *Symbol {
	sym := &Symbol{}

	// A name without the '?' prefix is a plain C identifier.
	if !d.cur.Consume("?") {
		n := d.arena.newName()
		n.Text = d.cur.Rest()
		sym.Name = []*Name{n}
		sym.Type = d.arena.newType()
		sym.Type.Prim = PrimUnknown
		return sym
	}

	sym.Name = d.readName()
	if d.err != nil {
		return sym
	}

	t := d.arena.newType()
	sym.Type = t

	switch {
	case d.cur.Consume("3"):
		// Variable.
		d.readVarType(t)

	case d.cur.Consume("Y"):
		// Non-member function.
		t.Prim = PrimFunction
		t.CallConv = d.readCallingConv()
		t.Inner = d.arena.newType()
		t.Inner.SClass = d.readStorageClassForReturn()
		d.readVarType(t.Inner)
		t.Params = d.readParams()
		d.consumeFuncTerminator()

	default:
		// Member function.
		t.Prim = PrimFunction
		t.FuncClass = d.readFuncClass()
		if t.FuncClass&(FCStatic|FCGlobal) == 0 {
			// Instance members carry the 64-bit marker and the access
			// qualifier; statics and globals have no 'this'.
			d.expect("E")
			t.SClass = d.readFuncAccessClass()
		}
		t.CallConv = d.readCallingConv()
		t.Inner = d.arena.newType()
		t.Inner.SClass = d.readStorageClass()
		d.readFuncReturnType(t.Inner)
		t.Params = d.readParams()
		d.consumeFuncTerminator()
	}

	return sym
}

// consumeFuncTerminator accepts either '@Z' or 'Z' after a parameter list.
// Absence at end-of-input is tolerated for the top-level signature.
func (d *demangler) consumeFuncTerminator() {
	if d.err != nil {
		return
	}
	if !d.cur.Consume("@Z") {
		d.cur.Consume("Z")
	}
}

// readNumber decodes '?'? (digit | [A-P]+ '@'). A decimal digit d encodes
// d+1; a hex run of A..P nibbles terminated by '@' encodes a base-16 value.
func (d *demangler) readNumber() int32 {
	if d.err != nil {
		return 0
	}

	neg := d.cur.Consume("?")

	if d.cur.StartswithDigit() {
		ret := int32(d.cur.Get()-'0') + 1
		if neg {
			return -ret
		}
		return ret
	}

	var ret int32
	for {
		b := d.cur.Get()
		if b == '@' {
			if neg {
				return -ret
			}
			return ret
		}
		if b < 'A' || b > 'P' {
			d.fail(ErrBadNumber, "")
			return 0
		}
		ret = ret<<4 + int32(b-'A')
	}
}

// readUntil returns the input up to the next occurrence of delim and
// consumes both.
func (d *demangler) readUntil(delim string) string {
	if d.err != nil {
		return ""
	}
	n := d.cur.Find(delim)
	if n < 0 {
		d.fail(ErrMissingTerminator, "no "+delim)
		return ""
	}
	s := d.cur.Substr(0, n)
	d.cur.Trim(n + len(delim))
	return s
}

// readName consumes name fragments until the lone '@' that closes the list.
// The returned list is innermost fragment first; A@B@C@@ parses to the
// qualified name C::B::A.
func (d *demangler) readName() []*Name {
	var names []*Name

	for d.err == nil {
		if d.cur.Consume("@") {
			return names
		}
		if d.cur.Empty() {
			d.fail(ErrMissingTerminator, "unterminated name")
			return names
		}

		if d.cur.StartswithDigit() {
			// Back-reference to a remembered fragment.
			i := d.cur.Get() - '0'
			if i >= len(d.nameBackrefs) {
				d.fail(ErrBackrefRange, "name back-reference")
				return names
			}
			n := d.arena.newName()
			n.Text = d.nameBackrefs[i]
			names = append(names, n)
			continue
		}

		if d.cur.Consume("?$") {
			// Template fragment: identifier, then arguments, then '@'.
			n := d.arena.newName()
			n.Text = d.readUntil("@")
			n.Params = d.readParams()
			d.expect("@")
			names = append(names, n)
			continue
		}

		text := d.readUntil("@")
		if d.err != nil {
			return names
		}
		d.memorizeName(text)
		n := d.arena.newName()
		n.Text = text
		names = append(names, n)
	}

	return names
}

func (d *demangler) memorizeName(text string) {
	if len(d.nameBackrefs) >= backrefMax {
		return
	}
	for _, s := range d.nameBackrefs {
		if s == text {
			return
		}
	}
	d.nameBackrefs = append(d.nameBackrefs, text)
}

// simdPatterns map the vector-type encodings onto primitives. They are
// matched before the tag dispatch so T__m64@@ is __m64, not union __m64.
var simdPatterns = []struct {
	code string
	prim PrimKind
}{
	{"T__m64@@", PrimM64},
	{"T__m128@@", PrimM128},
	{"U__m128d@@", PrimM128d},
	{"T__m128i@@", PrimM128i},
	{"T__m256@@", PrimM256},
	{"U__m256d@@", PrimM256d},
	{"T__m256i@@", PrimM256i},
	{"T__m512@@", PrimM512},
	{"U__m512d@@", PrimM512d},
	{"T__m512i@@", PrimM512i},
}

// readVarType decodes one type into t. First match wins.
func (d *demangler) readVarType(t *Type) {
	if d.err != nil {
		return
	}
	d.depth++
	defer func() { d.depth-- }()
	if d.depth > maxDepth {
		d.fail(ErrDepthExceeded, "")
		return
	}

	for _, p := range simdPatterns {
		if d.cur.Consume(p.code) {
			t.Prim = p.prim
			return
		}
	}

	switch {
	case d.cur.Consume("W4"):
		t.Prim = PrimEnum
		t.Name = d.readName()

	case d.cur.Consume("P6A"):
		// Pointer to function.
		t.Prim = PrimPtr
		t.Inner = d.arena.newType()
		fn := t.Inner
		fn.Prim = PrimFunction
		fn.CallConv = CallCdecl
		fn.Inner = d.arena.newType()
		d.readVarType(fn.Inner)
		fn.Params = d.readParams()
		if d.err == nil && !d.cur.Consume("@Z") && !d.cur.Consume("Z") {
			d.fail(ErrUnmetExpectation, "expected @Z")
		}

	case d.cur.Consume("T"):
		t.Prim = PrimUnion
		t.Name = d.readName()

	case d.cur.Consume("U"):
		t.Prim = PrimStruct
		t.Name = d.readName()

	case d.cur.Consume("V"):
		t.Prim = PrimClass
		t.Name = d.readName()

	case d.cur.Consume("A"):
		t.Prim = PrimRef
		d.readPointee(t)

	case d.cur.Consume("Q"):
		t.Prim = PrimPtr
		t.SClass |= SCConst
		d.readPointee(t)

	case d.cur.Consume("P"):
		t.Prim = PrimPtr
		d.readPointee(t)

	case d.cur.Consume("Y"):
		d.readArray(t)

	default:
		d.readPrimType(t)
	}
}

// readPointee fills in the pointee of a Ptr or Ref node. The 'E' 64-bit
// marker is absent in 32-bit encodings, so it is consumed only if present.
func (d *demangler) readPointee(t *Type) {
	d.cur.Consume("E")
	t.Inner = d.arena.newType()
	t.Inner.SClass = d.readStorageClass()
	d.readVarType(t.Inner)
}

// readArray decodes a dimension count, that many lengths, an optional $$C
// element qualifier, and finally the element type. The node chain is
// outermost dimension first.
func (d *demangler) readArray(t *Type) {
	dimension := d.readNumber()
	if d.err != nil {
		return
	}
	if dimension <= 0 {
		d.fail(ErrBadArrayDimension, "")
		return
	}

	tp := t
	for i := int32(0); i < dimension; i++ {
		tp.Prim = PrimArray
		tp.Len = d.readNumber()
		tp.Inner = d.arena.newType()
		tp = tp.Inner
	}
	if d.err != nil {
		return
	}

	var qual StorageClass
	if d.cur.Consume("$$C") {
		switch b := d.cur.Get(); b {
		case 'A':
			// No qualifier.
		case 'B':
			qual = SCConst
		case 'C', 'D':
			qual = SCConst | SCVolatile
		default:
			if b != cursor.EOF {
				d.cur.Unget()
			}
			d.fail(ErrUnexpectedByte, "unknown array storage class")
			return
		}
	}

	d.readVarType(tp)
	tp.SClass |= qual
}

// readParams reads parameter or template-argument types until the list is
// closed by '@' or 'Z'. Types that consumed more than one byte are
// remembered for back-reference; single-byte primitives are not.
func (d *demangler) readParams() []*Type {
	var params []*Type

	d.depth++
	defer func() { d.depth-- }()
	if d.depth > maxDepth {
		d.fail(ErrDepthExceeded, "")
		return nil
	}

	for d.err == nil && !d.cur.Empty() &&
		!d.cur.StartswithByte('@') && !d.cur.StartswithByte('Z') {
		if d.cur.StartswithDigit() {
			i := d.cur.Get() - '0'
			if i >= len(d.typeBackrefs) {
				d.fail(ErrBackrefRange, "type back-reference")
				return params
			}
			params = append(params, d.cloneType(d.typeBackrefs[i]))
			continue
		}

		start := d.cur.Pos()
		t := d.arena.newType()
		d.readVarType(t)
		if d.err != nil {
			return params
		}
		if d.cur.Pos()-start > 1 && len(d.typeBackrefs) < backrefMax {
			d.typeBackrefs = append(d.typeBackrefs, t)
		}
		params = append(params, t)
	}

	return params
}

var primCodes = []struct {
	code string
	prim PrimKind
}{
	{"X", PrimVoid},
	{"_N", PrimBool},
	{"D", PrimChar},
	{"C", PrimSchar},
	{"E", PrimUchar},
	{"F", PrimShort},
	{"G", PrimUshort},
	{"H", PrimInt},
	{"I", PrimUint},
	{"J", PrimLong},
	{"K", PrimUlong},
	{"_J", PrimLlong},
	{"_K", PrimUllong},
	{"_W", PrimWchar},
	{"M", PrimFloat},
	{"N", PrimDouble},
	{"O", PrimLdouble},
}

func (d *demangler) readPrimType(t *Type) {
	for _, p := range primCodes {
		if d.cur.Consume(p.code) {
			t.Prim = p.prim
			return
		}
	}
	d.fail(ErrUnexpectedByte, "unknown primitive type")
}

// readStorageClass decodes the A..H qualifier table. Any other byte is not
// an error: it is pushed back and no qualifier applies.
func (d *demangler) readStorageClass() StorageClass {
	if d.err != nil {
		return 0
	}
	switch b := d.cur.Get(); b {
	case 'A':
		return 0
	case 'B':
		return SCConst
	case 'C':
		return SCVolatile
	case 'D':
		return SCConst | SCVolatile
	case 'E':
		return SCFar
	case 'F':
		return SCConst | SCFar
	case 'G':
		return SCVolatile | SCFar
	case 'H':
		return SCConst | SCVolatile | SCFar
	default:
		if b != cursor.EOF {
			d.cur.Unget()
		}
		return 0
	}
}

// readStorageClassForReturn decodes the '?'-prefixed return qualifier.
func (d *demangler) readStorageClassForReturn() StorageClass {
	if d.err != nil {
		return 0
	}
	switch {
	case d.cur.Consume("?A"):
		return 0
	case d.cur.Consume("?B"):
		return SCConst
	case d.cur.Consume("?C"):
		return SCVolatile
	case d.cur.Consume("?D"):
		return SCConst | SCVolatile
	default:
		return 0
	}
}

// readFuncAccessClass decodes the member-function cv qualifier.
func (d *demangler) readFuncAccessClass() StorageClass {
	if d.err != nil {
		return 0
	}
	switch b := d.cur.Get(); b {
	case 'A':
		return 0
	case 'B':
		return SCConst
	case 'C':
		return SCVolatile
	case 'D':
		return SCConst | SCVolatile
	default:
		if b != cursor.EOF {
			d.cur.Unget()
		}
		return 0
	}
}

func (d *demangler) readCallingConv() CallingConvention {
	if d.err != nil {
		return CallCdecl
	}
	switch b := d.cur.Get(); b {
	case 'A', 'B':
		return CallCdecl
	case 'C':
		return CallPascal
	case 'E':
		return CallThiscall
	case 'G':
		return CallStdcall
	case 'I':
		return CallFastcall
	default:
		if b != cursor.EOF {
			d.cur.Unget()
		}
		d.fail(ErrUnexpectedByte, "unknown calling convention")
		return CallCdecl
	}
}

// readFuncClass decodes the access x {instance, static, virtual} x
// {near, far} x global letter table.
func (d *demangler) readFuncClass() FuncClass {
	if d.err != nil {
		return 0
	}
	switch b := d.cur.Get(); b {
	case 'A':
		return FCPrivate
	case 'B':
		return FCPrivate | FCFar
	case 'C':
		return FCPrivate | FCStatic
	case 'D':
		return FCPrivate | FCStatic | FCFar
	case 'E':
		return FCPrivate | FCVirtual
	case 'F':
		return FCPrivate | FCVirtual | FCFar
	case 'I':
		return FCProtected
	case 'J':
		return FCProtected | FCFar
	case 'K':
		return FCProtected | FCStatic
	case 'L':
		return FCProtected | FCStatic | FCFar
	case 'M':
		return FCProtected | FCVirtual
	case 'N':
		return FCProtected | FCVirtual | FCFar
	case 'Q':
		return FCPublic
	case 'R':
		return FCPublic | FCFar
	case 'S':
		return FCPublic | FCStatic
	case 'T':
		return FCPublic | FCStatic | FCFar
	case 'U':
		return FCPublic | FCVirtual
	case 'V':
		return FCPublic | FCVirtual | FCFar
	case 'Y':
		return FCGlobal
	case 'Z':
		return FCGlobal | FCFar
	default:
		if b != cursor.EOF {
			d.cur.Unget()
		}
		d.fail(ErrUnexpectedByte, "unknown function class")
		return 0
	}
}

// readFuncReturnType handles the structor case: '@' in return position
// means the function has no return type.
func (d *demangler) readFuncReturnType(t *Type) {
	if d.err != nil {
		return
	}
	if d.cur.Consume("@") {
		t.Prim = PrimNone
		return
	}
	d.readVarType(t)
}

// cloneType deep-copies a back-referenced type into this parse's arena so
// the tables stay append-only and nothing aliases.
func (d *demangler) cloneType(t *Type) *Type {
	c := d.arena.newType()
	*c = *t
	if t.Inner != nil {
		c.Inner = d.cloneType(t.Inner)
	}
	if len(t.Name) > 0 {
		c.Name = make([]*Name, len(t.Name))
		for i, n := range t.Name {
			c.Name[i] = d.cloneName(n)
		}
	}
	if len(t.Params) > 0 {
		c.Params = make([]*Type, len(t.Params))
		for i, p := range t.Params {
			c.Params[i] = d.cloneType(p)
		}
	}
	return c
}

func (d *demangler) cloneName(n *Name) *Name {
	c := d.arena.newName()
	c.Text = n.Text
	if len(n.Params) > 0 {
		c.Params = make([]*Type, len(n.Params))
		for i, p := range n.Params {
			c.Params[i] = d.cloneType(p)
		}
	}
	return c
}
