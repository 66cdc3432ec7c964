// Package model defines the core domain models used throughout the application.
package model

import "fmt"

// ItemID identifies an item kind in the game's static item table.
type ItemID uint32

// Container names an inventory grouping (bag pages, armoury chest
// categories, saddlebag, retainer pages).
type Container string

// Containers the engine knows how to scan.
const (
	ContainerBag1      Container = "bag1"
	ContainerBag2      Container = "bag2"
	ContainerBag3      Container = "bag3"
	ContainerBag4      Container = "bag4"
	ContainerArmoury   Container = "armoury"
	ContainerSaddlebag Container = "saddlebag"
	ContainerRetainer  Container = "retainer"
)

// SlotRef is the identity key of one inventory storage position.
// Two slots can hold the same item id, so (container, slot) is the key,
// never the item id alone.
type SlotRef struct {
	Container Container
	Slot      int
}

func (r SlotRef) String() string {
	return fmt.Sprintf("%s[%d]", r.Container, r.Slot)
}

// ItemFacts is an immutable snapshot of one occupied inventory slot,
// captured at refresh time. Classification never mutates it.
type ItemFacts struct {
	Name              string
	Location          SlotRef
	ID                ItemID
	Quantity          int
	ItemLevel         int
	EquipLevel        int
	Rarity            int
	UICategory        int
	EquipSlotCategory int
	SpiritbondPercent float64
	HighQuality       bool
	Tradeable         bool
	Indisposable      bool
	Collectable       bool
	Unique            bool
}

// IsGear reports whether the item occupies an equipment slot category.
func (f ItemFacts) IsGear() bool {
	return f.EquipSlotCategory != 0
}
