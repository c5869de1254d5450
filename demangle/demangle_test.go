package demangle

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemangle(t *testing.T) {
	tests := []struct {
		mangled string
		want    string
	}{
		// Variables.
		{"?x@@3HA", "int x"},
		{"?y@ns@@3HA", "int ns::y"},
		{"?z@b@a@@3NA", "double a::b::z"},
		{"?w@@3_WA", "wchar_t w"},
		{"?flag@@3_NA", "bool flag"},
		{"?big@@3_JA", "long long big"},
		{"?ubig@@3_KA", "unsigned long long ubig"},

		// Pointers and references.
		{"?p@@3PEAHA", "int *p"},
		{"?p32@@3PAHA", "int *p32"},
		{"?pp@@3PEAPEAHA", "int **pp"},
		{"?r@@3AEAHA", "int &r"},
		{"?pc@@3PEBHA", "int const *pc"},
		{"?cp@@3QEAHA", "int *const cp"},

		// Arrays.
		{"?arr@@3PAY09HA", "int (*arr)[10]"},
		{"?arr64@@3PEAY09HA", "int (*arr64)[10]"},
		{"?m@@3PEAY125HA", "int (*m)[3][6]"},
		{"?big@@3PEAY0BE@HA", "int (*big)[20]"},
		{"?ca@@3PEAY01$$CBHA", "int const (*ca)[2]"},

		// Tag types.
		{"?s@@3UPoint@@A", "struct Point s"},
		{"?u@@3TData@@A", "union Data u"},
		{"?c@@3VWidget@gui@@A", "class gui::Widget c"},
		{"?e@@3W4Color@ns@@A", "enum ns::Color e"},

		// Templates.
		{"?v@@3V?$vector@H@std@@A", "class std::vector<int> v"},
		{"?m@@3V?$map@HN@std@@A", "class std::map<int,double> m"},

		// SIMD vector types.
		{"?v@@3T__m64@@A", "__m64 v"},
		{"?v@@3T__m128@@A", "__m128 v"},
		{"?v@@3U__m128d@@A", "__m128d v"},
		{"?v@@3T__m512i@@A", "__m512i v"},

		// Free functions.
		{"?f@@YAXXZ", "void f(void)"},
		{"?g@@YAHH@Z", "int g(int)"},
		{"?h@@YAHHN@Z", "int h(int,double)"},
		{"?f@ns@@YAXH@Z", "void ns::f(int)"},

		// Function pointers.
		{"?fp@@3P6AHH@ZA", "int (*fp)(int)"},
		{"?foo@@YAXP6AHH@Z@Z", "void foo(int (*)(int))"},

		// Member functions.
		{"?foo@ns@@QEAAXH@Z", "public: void ns::foo(int)"},
		{"?get@C@@QEBAHXZ", "public: int C::get(void) const"},
		{"?vf@C@@UEAAXXZ", "public: virtual void C::vf(void)"},
		{"?sf@C@@SAXXZ", "public: static void C::sf(void)"},
		{"?pm@C@@AEAAXXZ", "private: void C::pm(void)"},
		{"?qm@C@@IEAAXXZ", "protected: void C::qm(void)"},

		// Structors.
		{"??0Foo@@QEAA@XZ", "public: Foo::Foo(void)"},
		{"??1Foo@@QEAA@XZ", "public: Foo::~Foo(void)"},
		{"??0Bar@ns@@QEAA@H@Z", "public: ns::Bar::Bar(int)"},

		// Name back-references.
		{"?y@ns@1@3HA", "int ns::ns::y"},

		// Parameter back-references.
		{"?f@@YAXUT@@0@Z", "void f(struct T,struct T)"},

		// Not mangled at all.
		{"plain_c_symbol", "plain_c_symbol"},
		{"_underscored", "_underscored"},
	}
	for _, tt := range tests {
		got, err := Demangle(tt.mangled)
		require.NoError(t, err, "input %q", tt.mangled)
		assert.Equal(t, tt.want, got, "input %q", tt.mangled)
	}
}

func TestDemangleErrors(t *testing.T) {
	tests := []struct {
		mangled string
		want    error
	}{
		{"", ErrEmptyInput},
		{"?x@", ErrMissingTerminator},
		{"?x@@3W4Color", ErrMissingTerminator},
		{"?x@@3!A", ErrUnexpectedByte},
		{"?f@@Y_AXXZ", ErrUnexpectedByte},
		{"?f@C@@%EAAXXZ", ErrUnexpectedByte},
		{"?x@5@@3HA", ErrBackrefRange},
		{"?f@@YAX0@Z", ErrBackrefRange},
		{"?a@@3YZHA", ErrBadNumber},
		{"?a@@3Y?0HA", ErrBadArrayDimension},
		{"?a@@3Y01$$CZHA", ErrUnexpectedByte},
		{"?m@C@@QAAXXZ", ErrUnmetExpectation},
	}
	for _, tt := range tests {
		got, err := Demangle(tt.mangled)
		require.Error(t, err, "input %q", tt.mangled)
		assert.ErrorIs(t, err, tt.want, "input %q", tt.mangled)
		assert.Empty(t, got, "no partial output for %q", tt.mangled)
	}
}

func TestParseErrorDetail(t *testing.T) {
	_, err := Parse("?f@@YAX0@Z")
	require.Error(t, err)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.ErrorIs(t, perr.Err, ErrBackrefRange)
	assert.Contains(t, perr.Error(), "back-reference")
}

// Substituting a back-reference digit with a copy of the referenced fragment
// must not change the demangled form.
func TestBackrefEquivalence(t *testing.T) {
	pairs := [][2]string{
		{"?y@ns@1@3HA", "?y@ns@ns@@3HA"},
		{"?f@@YAXUT@@0@Z", "?f@@YAXUT@@UT@@@Z"},
	}
	for _, pair := range pairs {
		a, err := Demangle(pair[0])
		require.NoError(t, err, "input %q", pair[0])
		b, err := Demangle(pair[1])
		require.NoError(t, err, "input %q", pair[1])
		assert.Equal(t, a, b, "%q vs %q", pair[0], pair[1])
	}
}

func TestPointerToFunctionParenthesized(t *testing.T) {
	got, err := Demangle("?fp@@3P6AHH@ZA")
	require.NoError(t, err)

	open := strings.Index(got, "(*")
	require.GreaterOrEqual(t, open, 0, "missing ( before sigil in %q", got)
	assert.Greater(t, strings.Index(got, ")"), open, "missing matching ) in %q", got)
}

func TestPrinterOutputClean(t *testing.T) {
	inputs := []string{
		"?x@@3HA",
		"?m@@3PEAY125HA",
		"?foo@@YAXP6AHH@Z@Z",
		"??0Foo@@QEAA@XZ",
		"?v@@3V?$vector@H@std@@A",
	}
	for _, input := range inputs {
		got, err := Demangle(input)
		require.NoError(t, err, "input %q", input)
		assert.NotEmpty(t, got)
		for i := 0; i < len(got); i++ {
			assert.GreaterOrEqual(t, got[i], byte(0x20), "control byte in %q", got)
		}
	}
}

func TestParseSymbol(t *testing.T) {
	sym, err := Parse("?g@@YAHH@Z")
	require.NoError(t, err)

	require.Len(t, sym.Name, 1)
	assert.Equal(t, "g", sym.Name[0].Text)
	assert.Equal(t, PrimFunction, sym.Type.Prim)
	assert.Equal(t, CallCdecl, sym.Type.CallConv)
	require.NotNil(t, sym.Type.Inner)
	assert.Equal(t, PrimInt, sym.Type.Inner.Prim)
	require.Len(t, sym.Type.Params, 1)
	assert.Equal(t, PrimInt, sym.Type.Params[0].Prim)
	assert.Equal(t, "int g(int)", sym.String())
}

func TestIsMangled(t *testing.T) {
	assert.True(t, IsMangled("?x@@3HA"))
	assert.True(t, IsMangled("@?x@@3HA"))
	assert.False(t, IsMangled("plain"))
	assert.False(t, IsMangled(""))
}
