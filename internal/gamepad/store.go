package gamepad

import (
	"os"

	"gopkg.in/yaml.v3"
)

// NumCalSlots is the number of ring-buffer slots the persistent
// calibration store keeps, one per distinct gamepad MAC address seen.
const NumCalSlots = 4

// NoSlot is returned by FindSlotByMAC when no slot matches, and is
// passed to SaveSlot to ask it to choose a slot by ring-buffer
// replacement; storage is best-effort and never panics or returns a
// hard error for the caller to crash on.
const NoSlot = -1

// CalSlot is one ring-buffer entry: the calibration for a single
// gamepad, keyed by its MAC address, with a rolling sequence number
// used to find the oldest entry when every slot is full.
type CalSlot struct {
	SeqNum uint8      `yaml:"seq_num"`
	Mac48  [6]byte    `yaml:"mac48"`
	Cal    GamepadCal `yaml:"gamepad_cal"`
}

type storeDoc struct {
	MultiGPCal map[string]*CalSlot `yaml:"multigpcal"`
}

func slotKey(i int) string {
	return "gpcal_slot_" + string(rune('0'+i))
}

// Store is an in-memory image of the persistent calibration slots,
// loaded from and saved to a YAML file standing in for the embedded
// target's NVS preference namespace.
type Store struct {
	slots [NumCalSlots]*CalSlot
}

// LoadStore reads a Store from path. A missing file is not an error:
// it yields an empty store, matching the original firmware's
// best-effort contract where a failed preferences.begin() simply
// means nothing is found.
func LoadStore(path string) (*Store, error) {
	s := &Store{}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return s, nil
	}
	var doc storeDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return s, nil
	}
	for i := 0; i < NumCalSlots; i++ {
		if slot, ok := doc.MultiGPCal[slotKey(i)]; ok {
			s.slots[i] = slot
		}
	}
	return s, nil
}

// Save writes the store to path as YAML.
func (s *Store) Save(path string) error {
	doc := storeDoc{MultiGPCal: make(map[string]*CalSlot, NumCalSlots)}
	for i := 0; i < NumCalSlots; i++ {
		if s.slots[i] != nil {
			doc.MultiGPCal[slotKey(i)] = s.slots[i]
		}
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// FindSlotByMAC scans the loaded slots for one matching mac, returning
// NoSlot if none matches.
func (s *Store) FindSlotByMAC(mac [6]byte) int {
	for i, slot := range s.slots {
		if slot != nil && slot.Mac48 == mac {
			return i
		}
	}
	return NoSlot
}

// LoadSlot returns the slot at index and whether it is occupied.
func (s *Store) LoadSlot(index int) (CalSlot, bool) {
	if index < 0 || index >= NumCalSlots || s.slots[index] == nil {
		return CalSlot{}, false
	}
	return *s.slots[index], true
}

// SaveSlot writes slot at slotIndex if it is a valid index (an
// explicit overwrite of a known MAC's slot, reusing its existing
// sequence number), or chooses a slot by ring-buffer replacement when
// slotIndex is NoSlot: the first hole, or the point where the rolling
// sequence number breaks continuity (the least-recently-written
// slot). It returns the index actually used.
func (s *Store) SaveSlot(slotIndex int, slot CalSlot) int {
	var index int
	var seqToUse uint8 = slot.SeqNum

	if slotIndex >= 0 && slotIndex < NumCalSlots {
		index = slotIndex
		if s.slots[index] != nil {
			seqToUse = s.slots[index].SeqNum
		}
	} else {
		index = -1
		foundASlot := false
		var prevSeq uint8 = 255
		var expectedSeq uint8
		for i := 0; i < NumCalSlots; i++ {
			expectedSeq = prevSeq + 1
			if s.slots[i] == nil {
				index = i
				break
			}
			seq := s.slots[i].SeqNum
			if !foundASlot {
				foundASlot = true
			} else if seq != expectedSeq {
				index = i
				break
			}
			prevSeq = seq
		}
		if index < 0 {
			index = 0
			expectedSeq = prevSeq + 1
		}
		seqToUse = expectedSeq
	}

	saved := slot
	saved.SeqNum = seqToUse
	s.slots[index] = &saved
	return index
}
