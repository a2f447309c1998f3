package model

type FileNumToMidiPath = map[uint32]string
