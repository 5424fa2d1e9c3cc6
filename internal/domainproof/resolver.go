package domainproof

import (
	"context"
	"net"
)

// Resolver performs the DNS lookups the verification checks depend on.
// The production implementation wraps *net.Resolver; tests substitute a
// canned resolver.
type Resolver interface {
	// LookupCNAME returns the canonical name for host. Resolvers report a
	// host with no CNAME by returning the host itself as its own canonical
	// name, or a not-found error; both are treated as "no CNAME present".
	LookupCNAME(ctx context.Context, host string) (string, error)

	// LookupAddrs returns the A/AAAA addresses for host.
	LookupAddrs(ctx context.Context, host string) ([]string, error)

	// LookupTXT returns the TXT records at name. Each record is a sequence
	// of character-string chunks as carried on the wire; callers must
	// concatenate the chunks of a record before comparing its value.
	LookupTXT(ctx context.Context, name string) ([][]string, error)
}

// NetResolver is the production Resolver backed by the operating
// environment's name resolution.
type NetResolver struct {
	r *net.Resolver
}

// NewNetResolver returns a Resolver using the default system resolver.
func NewNetResolver() *NetResolver {
	return &NetResolver{r: &net.Resolver{}}
}

func (n *NetResolver) LookupCNAME(ctx context.Context, host string) (string, error) {
	return n.r.LookupCNAME(ctx, host)
}

func (n *NetResolver) LookupAddrs(ctx context.Context, host string) ([]string, error) {
	return n.r.LookupHost(ctx, host)
}

func (n *NetResolver) LookupTXT(ctx context.Context, name string) ([][]string, error) {
	// The stdlib resolver concatenates the 255-byte chunks of each record
	// already, so each answer surfaces as a single-chunk sequence. Other
	// backends may surface raw chunks.
	txts, err := n.r.LookupTXT(ctx, name)
	if err != nil {
		return nil, err
	}
	records := make([][]string, len(txts))
	for i, t := range txts {
		records[i] = []string{t}
	}
	return records, nil
}
