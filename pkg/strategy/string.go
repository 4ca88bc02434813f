package strategy

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"kontrakt/pkg/constraint"
	"kontrakt/pkg/gencontext"
	"kontrakt/pkg/genrequest"
	"kontrakt/pkg/typedesc"
)

// defaultEmailDomains is used when an Email constraint declares no
// explicit allow list.
var defaultEmailDomains = []string{"example.com", "test.org", "contoso.net"}

// StringStrategy implements spec.md §4.2.3.
type StringStrategy struct{}

// NewStringStrategy constructs the string strategy.
func NewStringStrategy() *StringStrategy { return &StringStrategy{} }

func (s *StringStrategy) Name() string { return "string" }

func (s *StringStrategy) Supports(req genrequest.Request) bool {
	return req.Type != nil && req.Type.Kind == typedesc.KindPrimitive && req.Type.Primitive == typedesc.PrimitiveString
}

// effectiveStringLength computes the min/max length interval per
// spec.md §4.2.3: intersection of StringLength with NotBlank (forces
// min >= 1); if no upper bound, pad min with a small buffer.
func effectiveStringLength(req genrequest.Request) (min, max int) {
	min, max = 0, 64
	hasMax := false
	if sl, ok := req.Find(constraint.KindStringLength); ok {
		min, max = sl.StringMin, sl.StringMax
		hasMax = true
	}
	if req.Has(constraint.KindNotBlank) && min < 1 {
		min = 1
	}
	if !hasMax {
		max = min + 16
		if max < 16 {
			max = 16
		}
	}
	if min > max {
		max = min
	}
	return min, max
}

func (s *StringStrategy) Generate(req genrequest.Request, ctx *gencontext.Context, _ Reentry) (any, error) {
	if e, ok := req.Find(constraint.KindEmail); ok {
		return genEmail(req, ctx, e), nil
	}
	if req.Has(constraint.KindUUID) {
		return genUUID(ctx), nil
	}
	if u, ok := req.Find(constraint.KindURL); ok {
		return genURL(req, ctx, u), nil
	}
	if p, ok := req.Find(constraint.KindPattern); ok {
		return genPattern(p.Regex), nil
	}
	return genGeneric(req, ctx), nil
}

func genGeneric(req genrequest.Request, ctx *gencontext.Context) string {
	min, max := effectiveStringLength(req)
	length := min
	if max > min {
		length = ctx.RNG.IntRange(min, max)
	}
	return randomLetters(ctx, length)
}

func randomLetters(ctx *gencontext.Context, n int) string {
	const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(alphabet[ctx.RNG.Intn(len(alphabet))])
	}
	return b.String()
}

func genUUID(ctx *gencontext.Context) string {
	var raw [16]byte
	copy(raw[:], ctx.RNG.Bytes(16))
	id, err := uuid.FromBytes(raw[:])
	if err != nil {
		// uuid.FromBytes only fails on wrong length, which cannot happen
		// here; fall back to the zero UUID rather than panic.
		return uuid.Nil.String()
	}
	return id.String()
}

func genEmail(req genrequest.Request, ctx *gencontext.Context, e constraint.Constraint) string {
	_, max := effectiveStringLength(req)
	if sl, ok := req.Find(constraint.KindStringLength); ok {
		max = sl.StringMax
	} else {
		max = 254
	}

	domain := pickEmailDomain(ctx, e)
	localMax := max - len(domain) - 1
	if localMax < 1 {
		return fmt.Sprintf("a@%s", domain)
	}
	localLen := ctx.RNG.IntRange(1, min(localMax, 12))
	local := randomLetters(ctx, localLen)
	return fmt.Sprintf("%s@%s", local, domain)
}

func pickEmailDomain(ctx *gencontext.Context, e constraint.Constraint) string {
	candidates := e.EmailAllow
	if len(candidates) == 0 {
		candidates = filterOut(defaultEmailDomains, e.EmailBlock)
	}
	if len(candidates) == 0 {
		return "example.com"
	}
	return candidates[ctx.RNG.Intn(len(candidates))]
}

func filterOut(list, blocked []string) []string {
	if len(blocked) == 0 {
		return list
	}
	block := make(map[string]bool, len(blocked))
	for _, b := range blocked {
		block[b] = true
	}
	out := make([]string, 0, len(list))
	for _, v := range list {
		if !block[v] {
			out = append(out, v)
		}
	}
	return out
}

func genURL(req genrequest.Request, ctx *gencontext.Context, u constraint.Constraint) string {
	_, max := effectiveStringLength(req)
	if sl, ok := req.Find(constraint.KindStringLength); ok {
		max = sl.StringMax
	} else {
		max = 254
	}

	scheme := "https"
	if len(u.URLProtocol) > 0 {
		scheme = u.URLProtocol[ctx.RNG.Intn(len(u.URLProtocol))]
	}

	host := pickURLHost(ctx, u)
	url := fmt.Sprintf("%s://%s", scheme, host)
	if len(url) > max {
		overflow := len(url) - max
		if overflow < len(host) {
			host = host[:len(host)-overflow]
			url = fmt.Sprintf("%s://%s", scheme, host)
		}
		return url
	}

	path := fmt.Sprintf("/%s", randomLetters(ctx, 5))
	if len(url+path) <= max {
		url += path
	}
	return url
}

func pickURLHost(ctx *gencontext.Context, u constraint.Constraint) string {
	if len(u.URLHostAllow) > 0 {
		return u.URLHostAllow[ctx.RNG.Intn(len(u.URLHostAllow))]
	}
	host := fmt.Sprintf("%s.example.com", randomLetters(ctx, 6))
	for _, blocked := range u.URLHostBlock {
		if strings.EqualFold(host, blocked) {
			host = fmt.Sprintf("%s.example.com", randomLetters(ctx, 7))
		}
	}
	return host
}

// recognizedPatterns maps the canonical regexes spec.md §4.2.3 documents
// as supported to a generator for a matching string. Anything else falls
// back to the documented placeholder (spec.md Design Notes §9, third
// bullet).
var recognizedPatterns = map[string]func() string{
	`\d+`:        func() string { return "42" },
	`\w+`:        func() string { return "word_1" },
	`^[A-Z]+$`:   func() string { return "ABC" },
	`^[a-z]+$`:   func() string { return "abc" },
}

func genPattern(regex string) string {
	if gen, ok := recognizedPatterns[regex]; ok {
		return gen()
	}
	return fmt.Sprintf("Pattern_Placeholder_for_%s", regex)
}

func (s *StringStrategy) Boundaries(req genrequest.Request, ctx *gencontext.Context, _ Reentry) ([]any, error) {
	min, max := effectiveStringLength(req)
	out := []any{strings.Repeat("a", min)}
	if max <= 1000 {
		out = append(out, strings.Repeat("a", max))
	}
	if req.Has(constraint.KindEmail) {
		e, _ := req.Find(constraint.KindEmail)
		out = append(out, genEmail(req, ctx, e))
	}
	if req.Has(constraint.KindUUID) {
		out = append(out, genUUID(ctx))
	}
	if req.Has(constraint.KindURL) {
		u, _ := req.Find(constraint.KindURL)
		out = append(out, genURL(req, ctx, u))
	}
	return out, nil
}

func (s *StringStrategy) Invalid(req genrequest.Request, ctx *gencontext.Context, _ Reentry) ([]any, error) {
	min, max := effectiveStringLength(req)
	var out []any
	if min-1 >= 0 {
		out = append(out, strings.Repeat("a", min-1))
	}
	if max+1 <= 1000 {
		out = append(out, strings.Repeat("a", max+1))
	}
	out = append(out, "")
	if req.Has(constraint.KindNotBlank) {
		out = append(out, "   ")
	}
	if req.Has(constraint.KindEmail) {
		out = append(out, "not-an-email", "@domain.com")
	}
	_ = ctx
	return out, nil
}
