package witness

import (
	"github.com/cardano-go-sdk/ledger/cache"
	"github.com/cardano-go-sdk/ledger/cbor"
	"github.com/cardano-go-sdk/ledger/cerr"
	"github.com/cardano-go-sdk/ledger/container"
	"github.com/cardano-go-sdk/ledger/nativescript"
	"github.com/cardano-go-sdk/ledger/plutus"
)

func vkeyEqual(a, b *VkeyWitness) bool {
	return a.vkey.Bytes() != nil && string(a.vkey.Bytes()) == string(b.vkey.Bytes())
}

func bootstrapEqual(a, b *BootstrapWitness) bool {
	return string(a.vkey.Bytes()) == string(b.vkey.Bytes()) && string(a.signature.Bytes()) == string(b.signature.Bytes())
}

// WitnessSet is the aggregate collection of signatures, scripts, datums,
// and redeemers attached to a transaction (spec.md §3 "Witness set").
// Each field is optional; only populated fields are emitted on encode.
type WitnessSet struct {
	vkeyWitnesses       *container.Set[*VkeyWitness]
	nativeScripts       *container.Set[*nativescript.NativeScript]
	bootstrapWitnesses  *container.Set[*BootstrapWitness]
	plutusV1Scripts     *container.Set[*plutus.PlutusScript]
	plutusV2Scripts     *container.Set[*plutus.PlutusScript]
	plutusV3Scripts     *container.Set[*plutus.PlutusScript]
	plutusData          *container.Set[*plutus.PlutusData]
	redeemers           []*Redeemer
	cache               cache.Cache
}

// New constructs an empty WitnessSet; callers populate fields via the setters.
func New() *WitnessSet { return &WitnessSet{} }

func (ws *WitnessSet) VkeyWitnesses() *container.Set[*VkeyWitness] { return ws.vkeyWitnesses }
func (ws *WitnessSet) SetVkeyWitnesses(s *container.Set[*VkeyWitness]) {
	ws.vkeyWitnesses = s
	ws.cache.Clear()
}

func (ws *WitnessSet) NativeScripts() *container.Set[*nativescript.NativeScript] {
	return ws.nativeScripts
}
func (ws *WitnessSet) SetNativeScripts(s *container.Set[*nativescript.NativeScript]) {
	ws.nativeScripts = s
	ws.cache.Clear()
}

func (ws *WitnessSet) BootstrapWitnesses() *container.Set[*BootstrapWitness] {
	return ws.bootstrapWitnesses
}
func (ws *WitnessSet) SetBootstrapWitnesses(s *container.Set[*BootstrapWitness]) {
	ws.bootstrapWitnesses = s
	ws.cache.Clear()
}

func (ws *WitnessSet) PlutusData() *container.Set[*plutus.PlutusData] { return ws.plutusData }
func (ws *WitnessSet) SetPlutusData(s *container.Set[*plutus.PlutusData]) {
	ws.plutusData = s
	ws.cache.Clear()
}

func (ws *WitnessSet) Redeemers() []*Redeemer { return ws.redeemers }
func (ws *WitnessSet) SetRedeemers(r []*Redeemer) {
	ws.redeemers = r
	ws.cache.Clear()
}

// ClearCBORCache forces the next ToCBOR call to re-encode canonically.
func (ws *WitnessSet) ClearCBORCache() { ws.cache.Clear() }

func plutusScriptSet(lang plutus.Language) func(*cbor.Reader) (*plutus.PlutusScript, error) {
	return func(r *cbor.Reader) (*plutus.PlutusScript, error) { return plutus.ScriptFromCBOR(r, lang) }
}

// FromCBOR decodes a WitnessSet from its map-of-optional-fields form
// (keys 0-7 per the Conway witness_set CDDL).
func FromCBOR(r *cbor.Reader) (*WitnessSet, error) {
	tok := r.BeginCapture()
	n, indefinite, err := r.ReadStartMap(cbor.ExpectEither)
	if err != nil {
		return nil, err
	}
	ws := &WitnessSet{}
	readField := func() error {
		key, kerr := r.ReadU64()
		if kerr != nil {
			return cbor.DecodingFailed("witness_set.key", kerr)
		}
		switch key {
		case 0:
			s, serr := container.DecodeSet(r, VkeyWitnessFromCBOR, vkeyEqual, nil)
			if serr != nil {
				return serr
			}
			ws.vkeyWitnesses = s
		case 1:
			s, serr := container.DecodeSet(r, nativescript.FromCBOR, nativescript.Equal, nil)
			if serr != nil {
				return serr
			}
			ws.nativeScripts = s
		case 2:
			s, serr := container.DecodeSet(r, BootstrapWitnessFromCBOR, bootstrapEqual, nil)
			if serr != nil {
				return serr
			}
			ws.bootstrapWitnesses = s
		case 3:
			s, serr := container.DecodeSet(r, plutusScriptSet(plutus.V1), plutus.ScriptEqual, nil)
			if serr != nil {
				return serr
			}
			ws.plutusV1Scripts = s
		case 4:
			s, serr := container.DecodeSet(r, plutus.FromCBOR, plutus.Equal, nil)
			if serr != nil {
				return serr
			}
			ws.plutusData = s
		case 5:
			n, indef, lerr := r.ReadStartArray(cbor.ExpectEither)
			if lerr != nil {
				return lerr
			}
			readRedeemer := func() error {
				rd, rerr := RedeemerFromCBOR(r)
				if rerr != nil {
					return rerr
				}
				ws.redeemers = append(ws.redeemers, rd)
				return nil
			}
			if indef {
				for !r.AtBreak() {
					if err := readRedeemer(); err != nil {
						return err
					}
				}
				return r.ReadEndArray()
			}
			for i := 0; i < n; i++ {
				if err := readRedeemer(); err != nil {
					return err
				}
			}
		case 6:
			s, serr := container.DecodeSet(r, plutusScriptSet(plutus.V2), plutus.ScriptEqual, nil)
			if serr != nil {
				return serr
			}
			ws.plutusV2Scripts = s
		case 7:
			s, serr := container.DecodeSet(r, plutusScriptSet(plutus.V3), plutus.ScriptEqual, nil)
			if serr != nil {
				return serr
			}
			ws.plutusV3Scripts = s
		default:
			return cbor.DecodingFailed("witness_set.key", cerr.Newf(cerr.InvalidCborValue, "unknown witness set key %d", key))
		}
		return nil
	}
	if indefinite {
		for !r.AtBreak() {
			if err := readField(); err != nil {
				return nil, err
			}
		}
		if err := r.ReadEndMap(); err != nil {
			return nil, err
		}
	} else {
		for i := 0; i < n; i++ {
			if err := readField(); err != nil {
				return nil, err
			}
		}
	}
	ws.cache.Capture(r.EndCapture(tok))
	return ws, nil
}

// ToCBOR encodes ws, emitting only populated fields, replaying cached
// bytes when valid.
func ToCBOR(ws *WitnessSet, w *cbor.Writer) {
	if ws.cache.WriteIfValid(w) {
		return
	}
	n := 0
	if ws.vkeyWitnesses != nil {
		n++
	}
	if ws.nativeScripts != nil {
		n++
	}
	if ws.bootstrapWitnesses != nil {
		n++
	}
	if ws.plutusV1Scripts != nil {
		n++
	}
	if ws.plutusData != nil {
		n++
	}
	if len(ws.redeemers) > 0 {
		n++
	}
	if ws.plutusV2Scripts != nil {
		n++
	}
	if ws.plutusV3Scripts != nil {
		n++
	}
	w.WriteStartMap(n)
	if ws.vkeyWitnesses != nil {
		w.WriteU64(0)
		container.EncodeSet(ws.vkeyWitnesses, w, VkeyWitnessToCBOR)
	}
	if ws.nativeScripts != nil {
		w.WriteU64(1)
		container.EncodeSet(ws.nativeScripts, w, nativescript.ToCBOR)
	}
	if ws.bootstrapWitnesses != nil {
		w.WriteU64(2)
		container.EncodeSet(ws.bootstrapWitnesses, w, BootstrapWitnessToCBOR)
	}
	if ws.plutusV1Scripts != nil {
		w.WriteU64(3)
		container.EncodeSet(ws.plutusV1Scripts, w, plutus.ScriptToCBOR)
	}
	if ws.plutusData != nil {
		w.WriteU64(4)
		container.EncodeSet(ws.plutusData, w, plutus.ToCBOR)
	}
	if len(ws.redeemers) > 0 {
		w.WriteU64(5)
		w.WriteStartArray(len(ws.redeemers))
		for _, rd := range ws.redeemers {
			RedeemerToCBOR(rd, w)
		}
	}
	if ws.plutusV2Scripts != nil {
		w.WriteU64(6)
		container.EncodeSet(ws.plutusV2Scripts, w, plutus.ScriptToCBOR)
	}
	if ws.plutusV3Scripts != nil {
		w.WriteU64(7)
		container.EncodeSet(ws.plutusV3Scripts, w, plutus.ScriptToCBOR)
	}
}
