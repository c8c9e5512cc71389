// Package sensor loads the device mapping that drives every mutator.
//
// The mapping file lists one sensor per line as identifier=name, where the
// identifier is the sensor's BLE hardware address. Colons in the address are
// removed so "A4:C1:38:00:11:22=Kitchen" and "A4C138001122=Kitchen" name the
// same device. Blank lines and lines starting with '#' are ignored.
//
// The mapping keeps file order; a repeated identifier keeps its first
// position and takes the last name given.
package sensor
