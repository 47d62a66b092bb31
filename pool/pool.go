// Package pool implements stake pool registration data: PoolParams,
// PoolMetadata, and Relay (spec.md §3 "Certificates" — pool registration's
// nested parameter block). Grounded on original_source/lib/include/cardano/
// pool_params.h, pool_metadata.h, relay*.h and their paired tests, since
// spec.md's distillation names PoolRegistrationCertificate but leaves the
// nested PoolParams/Relay shapes to be filled in from the original.
package pool

import (
	"github.com/cardano-go-sdk/ledger/bigint"
	"github.com/cardano-go-sdk/ledger/cache"
	"github.com/cardano-go-sdk/ledger/cbor"
	"github.com/cardano-go-sdk/ledger/cerr"
	"github.com/cardano-go-sdk/ledger/container"
	"github.com/cardano-go-sdk/ledger/crypto/blakehash"
	"github.com/cardano-go-sdk/ledger/ratio"
)

// maxPoolMetadataURLLen is the original's hard cap on a pool metadata
// URL's byte length (pool_metadata.cpp boundary test, spec.md §8
// "Boundary cases"): 64 succeeds, 65 fails.
const maxPoolMetadataURLLen = 64

// PoolMetadata is a pool's off-chain metadata pointer: a URL and the
// hash of the JSON document it resolves to.
type PoolMetadata struct {
	url   string
	hash  *blakehash.BlakeHash
	cache cache.Cache
}

// NewPoolMetadata constructs a PoolMetadata. url must be at most 64 bytes.
func NewPoolMetadata(url string, hash *blakehash.BlakeHash) (*PoolMetadata, error) {
	if len(url) > maxPoolMetadataURLLen {
		return nil, cerr.Newf(cerr.InvalidArgument, "pool metadata url must be at most %d bytes, got %d", maxPoolMetadataURLLen, len(url))
	}
	if hash.Size() != int(blakehash.Size256) {
		return nil, cerr.Newf(cerr.InvalidBlake2bHashSize, "pool metadata hash must be 32 bytes, got %d", hash.Size())
	}
	return &PoolMetadata{url: url, hash: hash}, nil
}

// URL returns the metadata URL.
func (m *PoolMetadata) URL() string { return m.url }

// Hash returns the metadata document's hash.
func (m *PoolMetadata) Hash() *blakehash.BlakeHash { return m.hash }

// ClearCBORCache forces the next ToCBOR call to re-encode canonically.
func (m *PoolMetadata) ClearCBORCache() { m.cache.Clear() }

// MetadataFromCBOR decodes a PoolMetadata from its [url, hash] array form.
func MetadataFromCBOR(r *cbor.Reader) (*PoolMetadata, error) {
	tok := r.BeginCapture()
	n, _, err := r.ReadStartArray(cbor.ExpectDefinite)
	if err != nil {
		return nil, err
	}
	if n != 2 {
		return nil, cbor.DecodingFailed("pool_metadata", cerr.Newf(cerr.InvalidCborArraySize, "expected array of 2, got %d", n))
	}
	url, uerr := r.ReadText()
	if uerr != nil {
		return nil, cbor.DecodingFailed("pool_metadata.url", uerr)
	}
	hash, herr := blakehash.FromCBOR(r, blakehash.Size256)
	if herr != nil {
		return nil, cbor.DecodingFailed("pool_metadata.hash", herr)
	}
	m, err := NewPoolMetadata(url, hash)
	if err != nil {
		return nil, err
	}
	m.cache.Capture(r.EndCapture(tok))
	return m, nil
}

// MetadataToCBOR encodes m, replaying cached bytes when valid.
func MetadataToCBOR(m *PoolMetadata, w *cbor.Writer) {
	if m.cache.WriteIfValid(w) {
		return
	}
	w.WriteStartArray(2)
	w.WriteText(m.url)
	blakehash.ToCBOR(m.hash, w)
}

func metadataEqual(a, b *PoolMetadata) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.url == b.url && blakehash.Equal(a.hash, b.hash)
}

// RelayKind discriminates the three Relay variants.
type RelayKind int

const (
	RelaySingleHostAddr RelayKind = iota
	RelaySingleHostName
	RelayMultiHostName
)

// Relay is a single-relay entry in a pool's relay list.
type Relay struct {
	kind     RelayKind
	port     *uint64
	ipv4     []byte
	ipv6     []byte
	dnsName  string
}

// NewSingleHostAddr constructs a relay addressed by optional IPv4/IPv6 and
// optional port.
func NewSingleHostAddr(port *uint64, ipv4, ipv6 []byte) (*Relay, error) {
	if ipv4 != nil && len(ipv4) != 4 {
		return nil, cerr.Newf(cerr.InvalidArgument, "ipv4 must be 4 bytes, got %d", len(ipv4))
	}
	if ipv6 != nil && len(ipv6) != 16 {
		return nil, cerr.Newf(cerr.InvalidArgument, "ipv6 must be 16 bytes, got %d", len(ipv6))
	}
	return &Relay{kind: RelaySingleHostAddr, port: port, ipv4: ipv4, ipv6: ipv6}, nil
}

// NewSingleHostName constructs a relay addressed by DNS name and optional port.
func NewSingleHostName(port *uint64, dnsName string) *Relay {
	return &Relay{kind: RelaySingleHostName, port: port, dnsName: dnsName}
}

// NewMultiHostName constructs a relay resolved via SRV record lookup of dnsName.
func NewMultiHostName(dnsName string) *Relay {
	return &Relay{kind: RelayMultiHostName, dnsName: dnsName}
}

func (r *Relay) Kind() RelayKind  { return r.kind }
func (r *Relay) Port() *uint64    { return r.port }
func (r *Relay) IPv4() []byte     { return r.ipv4 }
func (r *Relay) IPv6() []byte     { return r.ipv6 }
func (r *Relay) DNSName() string  { return r.dnsName }

func relayEqual(a, b *Relay) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.kind != b.kind || a.dnsName != b.dnsName {
		return false
	}
	if (a.port == nil) != (b.port == nil) {
		return false
	}
	if a.port != nil && *a.port != *b.port {
		return false
	}
	return string(a.ipv4) == string(b.ipv4) && string(a.ipv6) == string(b.ipv6)
}

func optionalPortFromCBOR(r *cbor.Reader) (*uint64, error) {
	isNull, err := r.PeekNull()
	if err != nil {
		return nil, err
	}
	if isNull {
		if err := r.ReadNull(); err != nil {
			return nil, err
		}
		return nil, nil
	}
	p, err := r.ReadU64()
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func optionalBytesFromCBOR(r *cbor.Reader) ([]byte, error) {
	isNull, err := r.PeekNull()
	if err != nil {
		return nil, err
	}
	if isNull {
		if err := r.ReadNull(); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return r.ReadBytes()
}

func writeOptionalPort(w *cbor.Writer, p *uint64) {
	if p == nil {
		w.WriteNull()
		return
	}
	w.WriteU64(*p)
}

func writeOptionalBytes(w *cbor.Writer, b []byte) {
	if b == nil {
		w.WriteNull()
		return
	}
	w.WriteBytes(b)
}

// RelayFromCBOR decodes a Relay from its tagged-array form
// ([0, port/null, ipv4/null, ipv6/null] | [1, port/null, dns] | [2, dns]).
func RelayFromCBOR(r *cbor.Reader) (*Relay, error) {
	n, _, err := r.ReadStartArray(cbor.ExpectDefinite)
	if err != nil {
		return nil, err
	}
	kind, kerr := r.ReadU64()
	if kerr != nil {
		return nil, cbor.DecodingFailed("relay.tag", kerr)
	}
	switch kind {
	case 0:
		if n != 4 {
			return nil, cbor.DecodingFailed("relay", cerr.Newf(cerr.InvalidCborArraySize, "expected array of 4, got %d", n))
		}
		port, perr := optionalPortFromCBOR(r)
		if perr != nil {
			return nil, perr
		}
		ipv4, e1 := optionalBytesFromCBOR(r)
		if e1 != nil {
			return nil, e1
		}
		ipv6, e2 := optionalBytesFromCBOR(r)
		if e2 != nil {
			return nil, e2
		}
		return NewSingleHostAddr(port, ipv4, ipv6)
	case 1:
		if n != 3 {
			return nil, cbor.DecodingFailed("relay", cerr.Newf(cerr.InvalidCborArraySize, "expected array of 3, got %d", n))
		}
		port, perr := optionalPortFromCBOR(r)
		if perr != nil {
			return nil, perr
		}
		name, nerr := r.ReadText()
		if nerr != nil {
			return nil, cbor.DecodingFailed("relay.dns_name", nerr)
		}
		return NewSingleHostName(port, name), nil
	case 2:
		if n != 2 {
			return nil, cbor.DecodingFailed("relay", cerr.Newf(cerr.InvalidCborArraySize, "expected array of 2, got %d", n))
		}
		name, nerr := r.ReadText()
		if nerr != nil {
			return nil, cbor.DecodingFailed("relay.dns_name", nerr)
		}
		return NewMultiHostName(name), nil
	default:
		return nil, cbor.DecodingFailed("relay.tag", cerr.Newf(cerr.InvalidCborValue, "unknown relay tag %d", kind))
	}
}

// RelayToCBOR encodes rl in its tagged-array form.
func RelayToCBOR(rl *Relay, w *cbor.Writer) {
	switch rl.kind {
	case RelaySingleHostAddr:
		w.WriteStartArray(4)
		w.WriteU64(0)
		writeOptionalPort(w, rl.port)
		writeOptionalBytes(w, rl.ipv4)
		writeOptionalBytes(w, rl.ipv6)
	case RelaySingleHostName:
		w.WriteStartArray(3)
		w.WriteU64(1)
		writeOptionalPort(w, rl.port)
		w.WriteText(rl.dnsName)
	case RelayMultiHostName:
		w.WriteStartArray(2)
		w.WriteU64(2)
		w.WriteText(rl.dnsName)
	}
}

// PoolParams is the full parameter block carried by a pool registration
// certificate.
type PoolParams struct {
	operator      *blakehash.BlakeHash
	vrfKeyHash    *blakehash.BlakeHash
	pledge        *bigint.BigInt
	cost          *bigint.BigInt
	margin        *ratio.Ratio
	rewardAccount []byte
	poolOwners    *container.Set[*blakehash.BlakeHash]
	relays        []*Relay
	metadata      *PoolMetadata
	cache         cache.Cache
}

// New constructs a PoolParams. metadata may be nil (no metadata anchor).
func New(operator, vrfKeyHash *blakehash.BlakeHash, pledge, cost *bigint.BigInt, margin *ratio.Ratio,
	rewardAccount []byte, poolOwners *container.Set[*blakehash.BlakeHash], relays []*Relay, metadata *PoolMetadata) (*PoolParams, error) {
	if operator.Size() != int(blakehash.Size224) {
		return nil, cerr.Newf(cerr.InvalidBlake2bHashSize, "pool operator hash must be 28 bytes, got %d", operator.Size())
	}
	if vrfKeyHash.Size() != int(blakehash.Size256) {
		return nil, cerr.Newf(cerr.InvalidBlake2bHashSize, "pool vrf key hash must be 32 bytes, got %d", vrfKeyHash.Size())
	}
	acct := make([]byte, len(rewardAccount))
	copy(acct, rewardAccount)
	return &PoolParams{
		operator: operator, vrfKeyHash: vrfKeyHash, pledge: pledge, cost: cost,
		margin: margin, rewardAccount: acct, poolOwners: poolOwners, relays: relays, metadata: metadata,
	}, nil
}

func (p *PoolParams) Operator() *blakehash.BlakeHash                    { return p.operator }
func (p *PoolParams) VRFKeyHash() *blakehash.BlakeHash                  { return p.vrfKeyHash }
func (p *PoolParams) Pledge() *bigint.BigInt                           { return p.pledge }
func (p *PoolParams) Cost() *bigint.BigInt                             { return p.cost }
func (p *PoolParams) Margin() *ratio.Ratio                             { return p.margin }
func (p *PoolParams) RewardAccount() []byte                            { return p.rewardAccount }
func (p *PoolParams) PoolOwners() *container.Set[*blakehash.BlakeHash] { return p.poolOwners }
func (p *PoolParams) Relays() []*Relay                                 { return p.relays }
func (p *PoolParams) Metadata() *PoolMetadata                          { return p.metadata }

// ClearCBORCache forces the next ToCBOR call to re-encode canonically.
func (p *PoolParams) ClearCBORCache() { p.cache.Clear() }

// FromCBOR decodes a PoolParams from its 9-element array form:
// [operator, vrf_key_hash, pledge, cost, margin, reward_account,
//  pool_owners, relays, metadata/null].
func FromCBOR(r *cbor.Reader) (*PoolParams, error) {
	tok := r.BeginCapture()
	n, _, err := r.ReadStartArray(cbor.ExpectDefinite)
	if err != nil {
		return nil, err
	}
	if n != 9 {
		return nil, cbor.DecodingFailed("pool_params", cerr.Newf(cerr.InvalidCborArraySize, "expected array of 9, got %d", n))
	}
	operator, e1 := blakehash.FromCBOR(r, blakehash.Size224)
	if e1 != nil {
		return nil, cbor.DecodingFailed("pool_params.operator", e1)
	}
	vrf, e2 := blakehash.FromCBOR(r, blakehash.Size256)
	if e2 != nil {
		return nil, cbor.DecodingFailed("pool_params.vrf_key_hash", e2)
	}
	pledge, e3 := bigint.FromCBOR(r)
	if e3 != nil {
		return nil, cbor.DecodingFailed("pool_params.pledge", e3)
	}
	cost, e4 := bigint.FromCBOR(r)
	if e4 != nil {
		return nil, cbor.DecodingFailed("pool_params.cost", e4)
	}
	margin, e5 := ratio.FromCBOR(r)
	if e5 != nil {
		return nil, cbor.DecodingFailed("pool_params.margin", e5)
	}
	rewardAccount, e6 := r.ReadBytes()
	if e6 != nil {
		return nil, cbor.DecodingFailed("pool_params.reward_account", e6)
	}
	owners, e7 := container.DecodeSet(r, func(rr *cbor.Reader) (*blakehash.BlakeHash, error) {
		return blakehash.FromCBOR(rr, blakehash.Size224)
	}, blakehash.Equal, nil)
	if e7 != nil {
		return nil, e7
	}
	relayCount, relayIndef, e8 := r.ReadStartArray(cbor.ExpectEither)
	if e8 != nil {
		return nil, e8
	}
	var relays []*Relay
	readRelay := func() error {
		rl, rerr := RelayFromCBOR(r)
		if rerr != nil {
			return rerr
		}
		relays = append(relays, rl)
		return nil
	}
	if relayIndef {
		for !r.AtBreak() {
			if err := readRelay(); err != nil {
				return nil, err
			}
		}
		if err := r.ReadEndArray(); err != nil {
			return nil, err
		}
	} else {
		for i := 0; i < relayCount; i++ {
			if err := readRelay(); err != nil {
				return nil, err
			}
		}
	}
	isNull, e9 := r.PeekNull()
	if e9 != nil {
		return nil, e9
	}
	var metadata *PoolMetadata
	if isNull {
		if err := r.ReadNull(); err != nil {
			return nil, err
		}
	} else {
		metadata, e9 = MetadataFromCBOR(r)
		if e9 != nil {
			return nil, e9
		}
	}
	pp, err := New(operator, vrf, pledge, cost, margin, rewardAccount, owners, relays, metadata)
	if err != nil {
		return nil, err
	}
	pp.cache.Capture(r.EndCapture(tok))
	return pp, nil
}

// ToCBOR encodes pp, replaying cached bytes when valid.
func ToCBOR(pp *PoolParams, w *cbor.Writer) {
	if pp.cache.WriteIfValid(w) {
		return
	}
	w.WriteStartArray(9)
	blakehash.ToCBOR(pp.operator, w)
	blakehash.ToCBOR(pp.vrfKeyHash, w)
	bigint.ToCBOR(pp.pledge, w)
	bigint.ToCBOR(pp.cost, w)
	ratio.ToCBOR(pp.margin, w)
	w.WriteBytes(pp.rewardAccount)
	container.EncodeSet(pp.poolOwners, w, blakehash.ToCBOR)
	w.WriteStartArray(len(pp.relays))
	for _, rl := range pp.relays {
		RelayToCBOR(rl, w)
	}
	if pp.metadata != nil {
		MetadataToCBOR(pp.metadata, w)
	} else {
		w.WriteNull()
	}
}

// Equal reports deep structural equality between two PoolParams.
func Equal(a, b *PoolParams) bool {
	if a == nil || b == nil {
		return a == b
	}
	if !blakehash.Equal(a.operator, b.operator) || !blakehash.Equal(a.vrfKeyHash, b.vrfKeyHash) {
		return false
	}
	if a.pledge.Cmp(b.pledge) != 0 || a.cost.Cmp(b.cost) != 0 {
		return false
	}
	if !ratio.Equal(a.margin, b.margin) {
		return false
	}
	if string(a.rewardAccount) != string(b.rewardAccount) {
		return false
	}
	if (a.poolOwners == nil) != (b.poolOwners == nil) {
		return false
	}
	if a.poolOwners != nil {
		ao, bo := a.poolOwners.Items(), b.poolOwners.Items()
		if len(ao) != len(bo) {
			return false
		}
		for i := range ao {
			if !blakehash.Equal(ao[i], bo[i]) {
				return false
			}
		}
	}
	if len(a.relays) != len(b.relays) {
		return false
	}
	for i := range a.relays {
		if !relayEqual(a.relays[i], b.relays[i]) {
			return false
		}
	}
	if !metadataEqual(a.metadata, b.metadata) {
		return false
	}
	return true
}
