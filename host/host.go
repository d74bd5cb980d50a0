// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package host allows you to create a "host" that operates on HiROM
// super famicom ROM images: a console with commands for loading and
// saving images, applying IPS patches, managing the free space map,
// repairing header checksums, dumping and disassembling 65816 machine
// code, converting between bus addresses and file offsets, and
// evaluating arbitrary expressions.
package host

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/beevik/cmd"
	"github.com/beevik/go65816/cpu"
	"github.com/beevik/go65816/disasm"
	"github.com/beevik/go65816/rom"
)

var cmds *cmd.Tree

func init() {
	// Create a command tree, where the parameter stored with each command is
	// a host callback capable of handling the command.
	cmds = cmd.NewTree("go65816", []cmd.Command{
		{
			Name:     "help",
			Shortcut: "?",
			Data:     (*Host).cmdHelp,
		},
		{
			Name:  "annotate",
			Brief: "Annotate an address",
			Description: "Provide a code annotation at a file offset." +
				" When disassembling code at this offset, the annotation will" +
				" be displayed.",
			HelpText: "annotate <address> <string>",
			Data:     (*Host).cmdAnnotate,
		},
		{
			Name:     "checksum",
			Shortcut: "c",
			Brief:    "Checksum commands",
			Subcommands: cmd.NewTree("Checksum", []cmd.Command{
				{
					Name:  "show",
					Brief: "Display the header checksum",
					Description: "Compute the ROM header checksum and compare" +
						" it against the checksum and complement stored in the" +
						" image header.",
					HelpText: "checksum show",
					Data:     (*Host).cmdChecksumShow,
				},
				{
					Name:  "fix",
					Brief: "Repair the header checksum",
					Description: "Recompute the ROM header checksum and store" +
						" the checksum and complement fields in the image" +
						" header.",
					HelpText: "checksum fix",
					Data:     (*Host).cmdChecksumFix,
				},
			}),
		},
		{
			Name:     "disassemble",
			Shortcut: "d",
			Brief:    "Disassemble code",
			Description: "Disassemble machine code starting at the requested" +
				" file offset. The number of instructions to disassemble may be" +
				" specified as an option. Immediate operand widths follow the" +
				" MBit and XBit settings.",
			HelpText: "disassemble <address> [<count>]",
			Data:     (*Host).cmdDisassemble,
		},
		{
			Name:        "evaluate",
			Shortcut:    "e",
			Brief:       "Evaluate an expression",
			Description: "Evaluate a mathematical expression.",
			HelpText:    "evaluate <expression>",
			Data:        (*Host).cmdEval,
		},
		{
			Name:  "info",
			Brief: "Display ROM image information",
			Description: "Display a summary of the loaded ROM image: its file" +
				" name, size, header checksum state, and free space totals.",
			HelpText: "info",
			Data:     (*Host).cmdInfo,
		},
		{
			Name:  "load",
			Brief: "Load a ROM image",
			Description: "Load a ROM image file into the host. If the file" +
				" carries a 512-byte copier header, the header is stripped." +
				" The image starts out with all of its space marked used.",
			HelpText: "load <filename>",
			Data:     (*Host).cmdLoad,
		},
		{
			Name:  "memory",
			Brief: "Memory commands",
			Subcommands: cmd.NewTree("Memory", []cmd.Command{
				{
					Name:  "dump",
					Brief: "Dump memory at address",
					Description: "Dump the contents of the ROM image starting" +
						" from the specified file offset. The number of bytes to" +
						" dump may be specified as an option.",
					HelpText: "memory dump <address> [<bytes>]",
					Data:     (*Host).cmdMemoryDump,
				},
			}),
		},
		{
			Name:  "patch",
			Brief: "Patch commands",
			Subcommands: cmd.NewTree("Patch", []cmd.Command{
				{
					Name:  "ips",
					Brief: "Apply an IPS patch",
					Description: "Apply an IPS patch file to the ROM image." +
						" Patched regions are marked used in the free space map," +
						" except long runs of zero bytes, which are marked free.",
					HelpText: "patch ips <filename>",
					Data:     (*Host).cmdPatchIPS,
				},
			}),
		},
		{
			Name:  "ptr",
			Brief: "Pointer conversion commands",
			Subcommands: cmd.NewTree("Pointer", []cmd.Command{
				{
					Name:  "file",
					Brief: "Convert a bus address to a file offset",
					Description: "Convert a 65816 bus address into the ROM" +
						" file offset where the byte is stored.",
					HelpText: "ptr file <address>",
					Data:     (*Host).cmdPtrFile,
				},
				{
					Name:  "rom",
					Brief: "Convert a file offset to a bus address",
					Description: "Convert a ROM file offset into the 65816 bus" +
						" address where the byte appears.",
					HelpText: "ptr rom <address>",
					Data:     (*Host).cmdPtrRom,
				},
			}),
		},
		{
			Name:        "quit",
			Brief:       "Quit the program",
			Description: "Quit the program.",
			HelpText:    "quit",
			Data:        (*Host).cmdQuit,
		},
		{
			Name:  "save",
			Brief: "Save the ROM image",
			Description: "Save the ROM image to a file. With no filename, the" +
				" image is saved to the file it was loaded from.",
			HelpText: "save [<filename>]",
			Data:     (*Host).cmdSave,
		},
		{
			Name:  "set",
			Brief: "Set a configuration variable",
			Description: "Set the value of a configuration variable. Type the set" +
				" command without a variable name or value to display the current" +
				" values of all configuration variables.",
			HelpText: "set <var> <value>",
			Data:     (*Host).cmdSet,
		},
		{
			Name:     "space",
			Shortcut: "s",
			Brief:    "Free space commands",
			Subcommands: cmd.NewTree("Free space", []cmd.Command{
				{
					Name:  "list",
					Brief: "List free or used blocks",
					Description: "List the blocks recorded in the free space" +
						" map. Free blocks are listed by default; pass 'used' to" +
						" list used blocks instead.",
					HelpText: "space list [free|used]",
					Data:     (*Host).cmdSpaceList,
				},
				{
					Name:  "find",
					Brief: "Find a free block",
					Description: "Find a free block large enough to hold the" +
						" requested number of bytes, preferring blocks at or" +
						" after the hint address. The block is not marked used.",
					HelpText: "space find <size> [<hint>]",
					Data:     (*Host).cmdSpaceFind,
				},
				{
					Name:  "free",
					Brief: "Mark a block free",
					Description: "Mark the block of file offsets from start" +
						" (inclusive) to end (exclusive) as free.",
					HelpText: "space free <start> <end>",
					Data:     (*Host).cmdSpaceFree,
				},
				{
					Name:  "use",
					Brief: "Mark a block used",
					Description: "Mark the block of file offsets from start" +
						" (inclusive) to end (exclusive) as used.",
					HelpText: "space use <start> <end>",
					Data:     (*Host).cmdSpaceUse,
				},
			}),
		},

		// Aliases for nested commands
		{Name: "m", Alias: "memory dump"},
		{Name: "sl", Alias: "space list"},
		{Name: "sf", Alias: "space find"},
		{Name: "pf", Alias: "ptr file"},
		{Name: "pr", Alias: "ptr rom"},
		{Name: "cf", Alias: "checksum fix"},
	})
}

// A Host represents a console for operating on a HiROM ROM image, with
// commands for patching, free space management, checksum repair,
// disassembly, and expression evaluation.
type Host struct {
	input       *bufio.Scanner
	output      *bufio.Writer
	interactive bool
	rom         *rom.ROM
	filename    string
	lastCmd     *cmd.Selection
	exprParser  *exprParser
	settings    *settings
	annotations map[int]string
}

// New creates a new ROM host environment.
func New() *Host {
	return &Host{
		exprParser:  newExprParser(),
		settings:    newSettings(),
		annotations: make(map[int]string),
	}
}

// LoadROM loads a ROM image file into the host.
func (h *Host) LoadROM(filename string) error {
	r, err := rom.LoadFile(filename)
	if err != nil {
		return err
	}
	h.rom = r
	h.filename = filename
	return nil
}

// RunCommands accepts host commands from a reader and outputs the results
// to a writer. If the commands are interactive, a prompt is displayed while
// the host waits for the the next command to be entered.
func (h *Host) RunCommands(r io.Reader, w io.Writer, interactive bool) {
	h.input = bufio.NewScanner(r)
	h.output = bufio.NewWriter(w)
	h.interactive = interactive

	if interactive {
		h.println()
	}

	for {
		h.prompt()

		line, err := h.getLine()
		if err != nil {
			break
		}

		var c cmd.Selection
		if line != "" {
			c, err = cmds.Lookup(line)
			switch {
			case err == cmd.ErrNotFound:
				h.println("Command not found.")
				continue
			case err == cmd.ErrAmbiguous:
				h.println("Command is ambiguous.")
				continue
			case err != nil:
				h.printf("ERROR: %v.\n", err)
				continue
			}
		} else if h.lastCmd != nil {
			c = *h.lastCmd
		}

		if c.Command == nil {
			continue
		}
		h.lastCmd = &c

		handler := c.Command.Data.(func(*Host, cmd.Selection) error)
		err = handler(h, c)
		if err != nil {
			break
		}
	}
}

// Break interrupts a pending prompt, for example after a Ctrl-C.
func (h *Host) Break() {
	h.println()
	h.prompt()
}

func (h *Host) printf(format string, args ...any) {
	fmt.Fprintf(h.output, format, args...)
	h.flush()
}

func (h *Host) println(args ...any) {
	fmt.Fprintln(h.output, args...)
	h.flush()
}

func (h *Host) flush() {
	h.output.Flush()
}

func (h *Host) getLine() (string, error) {
	if h.input.Scan() {
		return h.input.Text(), nil
	}
	if h.input.Err() != nil {
		return "", h.input.Err()
	}
	return "", io.EOF
}

func (h *Host) prompt() {
	if h.interactive {
		h.printf("* ")
		h.flush()
	}
}

func (h *Host) requireROM() bool {
	if h.rom == nil {
		h.println("No ROM image loaded.")
		return false
	}
	return true
}

func (h *Host) cmdAnnotate(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c.Command)
		return nil
	}

	addr, err := h.parseExpr(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	var annotation string
	if len(c.Args) >= 2 {
		annotation = strings.Join(c.Args[1:], " ")
	}

	if annotation == "" {
		delete(h.annotations, addr)
		h.printf("Annotation removed at $%06X.\n", addr)
	} else {
		h.annotations[addr] = annotation
		h.printf("Annotation added at $%06X.\n", addr)
	}

	return nil
}

func (h *Host) cmdChecksumShow(c cmd.Selection) error {
	if !h.requireROM() {
		return nil
	}
	if h.rom.Size() < rom.ChecksumAddr+2 {
		h.println("Image too small to hold a header checksum.")
		return nil
	}

	sum := h.rom.Checksum()
	h.printf("Computed checksum: $%04X\n", sum)
	h.printf("Stored checksum:   $%04X (complement $%04X)\n",
		h.rom.LoadAddress(rom.ChecksumAddr),
		h.rom.LoadAddress(rom.ChecksumComplementAddr))
	if h.rom.ChecksumOK() {
		h.println("Checksum OK.")
	} else {
		h.println("Checksum mismatch.")
	}
	return nil
}

func (h *Host) cmdChecksumFix(c cmd.Selection) error {
	if !h.requireROM() {
		return nil
	}

	if err := h.rom.FixChecksum(); err != nil {
		h.printf("%v\n", err)
		return nil
	}
	h.printf("Checksum updated to $%04X.\n", h.rom.Checksum())
	return nil
}

func (h *Host) cmdDisassemble(c cmd.Selection) error {
	if !h.requireROM() {
		return nil
	}
	if len(c.Args) == 0 {
		c.Args = []string{"$"}
	}

	var addr int
	switch c.Args[0] {
	case "$":
		addr = int(h.settings.NextDisasmAddr)

	default:
		a, err := h.parseExpr(c.Args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		addr = a
	}

	lines := h.settings.DisasmLines
	if len(c.Args) > 1 {
		l, err := h.parseExpr(c.Args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		lines = l
	}

	for i := 0; i < lines && addr < h.rom.Size(); i++ {
		d, next := h.disassemble(addr)
		h.println(d)
		addr = next
	}

	h.settings.NextDisasmAddr = uint32(addr)
	h.lastCmd.Args = []string{"$", fmt.Sprintf("%d", lines)}
	return nil
}

func (h *Host) cmdEval(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c.Command)
		return nil
	}

	expr := strings.Join(c.Args, " ")
	v, err := h.parseExpr(expr)
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	h.printf("$%06X\n", v)
	return nil
}

func (h *Host) cmdHelp(c cmd.Selection) error {
	switch {
	case len(c.Args) == 0:
		h.displayCommands(cmds)
	default:
		s, err := cmds.Lookup(strings.Join(c.Args, " "))
		if err != nil {
			h.printf("%v\n", err)
		} else {
			switch {
			case s.Command.Subcommands != nil:
				h.displayCommands(s.Command.Subcommands)
			default:
				if s.Command.HelpText != "" {
					h.printf("Syntax: %s\n\n", s.Command.HelpText)
				}
				switch {
				case s.Command.Description != "":
					h.printf("Description:\n%s\n\n", indentWrap(3, s.Command.Description))
				case s.Command.Brief != "":
					h.printf("Description:\n%s.\n\n", indentWrap(3, s.Command.Brief))
				}
			}
		}
	}
	return nil
}

func (h *Host) cmdInfo(c cmd.Selection) error {
	if !h.requireROM() {
		return nil
	}

	r := h.rom
	h.printf("File:       %s\n", h.filename)
	h.printf("Size:       $%06X bytes\n", r.Size())

	if r.Size() >= rom.ChecksumAddr+2 {
		status := "mismatch"
		if r.ChecksumOK() {
			status = "ok"
		}
		h.printf("Checksum:   $%04X (%s)\n", r.Checksum(), status)
	}

	space := r.Space()
	blocks := space.FreeBlocks()
	h.printf("Free space: $%X bytes in %d blocks\n", space.TotalFree(), len(blocks))

	var largest rom.Block
	for _, b := range blocks {
		if b.Len() > largest.Len() {
			largest = b
		}
	}
	if largest.Len() > 0 {
		h.printf("Largest:    $%X bytes at $%06X\n", largest.Len(), largest.Start)
	}
	return nil
}

func (h *Host) cmdLoad(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c.Command)
		return nil
	}

	filename := c.Args[0]
	if filepath.Ext(filename) == "" {
		filename += ".sfc"
	}

	if err := h.LoadROM(filename); err != nil {
		h.printf("Failed to load '%s': %v\n", filepath.Base(filename), err)
		return nil
	}

	h.printf("Loaded '%s' ($%06X bytes).\n", filepath.Base(filename), h.rom.Size())
	if h.rom.Size() >= rom.ChecksumAddr+2 && !h.rom.ChecksumOK() {
		h.println("Header checksum does not match the image contents.")
	}
	return nil
}

func (h *Host) cmdMemoryDump(c cmd.Selection) error {
	if !h.requireROM() {
		return nil
	}
	if len(c.Args) < 1 {
		h.displayHelpText(c.Command)
		return nil
	}

	var addr int
	switch c.Args[0] {
	case "$":
		addr = int(h.settings.NextMemDumpAddr)

	default:
		a, err := h.parseExpr(c.Args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		addr = a
	}

	bytes := h.settings.MemDumpBytes
	if len(c.Args) >= 2 {
		var err error
		bytes, err = h.parseExpr(c.Args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
	}

	h.dumpMemory(addr, bytes)

	h.settings.NextMemDumpAddr = uint32(addr + bytes)
	h.lastCmd.Args = []string{"$", fmt.Sprintf("%d", bytes)}
	return nil
}

func (h *Host) cmdPatchIPS(c cmd.Selection) error {
	if !h.requireROM() {
		return nil
	}
	if len(c.Args) < 1 {
		h.displayHelpText(c.Command)
		return nil
	}

	filename := c.Args[0]
	if filepath.Ext(filename) == "" {
		filename += ".ips"
	}

	file, err := os.Open(filename)
	if err != nil {
		h.printf("Failed to open '%s': %v\n", filepath.Base(filename), err)
		return nil
	}
	defer file.Close()

	if err := h.rom.ApplyIPS(file); err != nil {
		h.printf("Failed to apply '%s': %v\n", filepath.Base(filename), err)
		return nil
	}

	h.printf("Applied '%s' ($%06X bytes).\n", filepath.Base(filename), h.rom.Size())
	if h.rom.Size() >= rom.ChecksumAddr+2 && !h.rom.ChecksumOK() {
		h.println("Header checksum no longer matches; run 'checksum fix'.")
	}
	return nil
}

func (h *Host) cmdPtrFile(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c.Command)
		return nil
	}

	addr, err := h.parseExpr(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	p, err := rom.FilePtr(addr)
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	h.printf("Bus address $%06X maps to file offset $%06X.\n", addr, p)
	return nil
}

func (h *Host) cmdPtrRom(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c.Command)
		return nil
	}

	addr, err := h.parseExpr(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	p, err := rom.RomPtr(addr)
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	h.printf("File offset $%06X maps to bus address $%06X.\n", addr, p)
	return nil
}

func (h *Host) cmdQuit(c cmd.Selection) error {
	return errors.New("Exiting program")
}

func (h *Host) cmdSave(c cmd.Selection) error {
	if !h.requireROM() {
		return nil
	}

	filename := h.filename
	if len(c.Args) >= 1 {
		filename = c.Args[0]
		if filepath.Ext(filename) == "" {
			filename += ".sfc"
		}
	}
	if filename == "" {
		h.displayHelpText(c.Command)
		return nil
	}

	if err := h.rom.SaveFile(filename); err != nil {
		h.printf("Failed to save '%s': %v\n", filepath.Base(filename), err)
		return nil
	}

	h.filename = filename
	h.printf("Saved '%s' ($%06X bytes).\n", filepath.Base(filename), h.rom.Size())
	return nil
}

func (h *Host) cmdSet(c cmd.Selection) error {
	switch len(c.Args) {
	case 0:
		h.println("Variables:")
		h.settings.Display(h.output)

	case 1:
		h.displayHelpText(c.Command)

	default:
		key, value := strings.ToLower(c.Args[0]), strings.Join(c.Args[1:], " ")
		v, errV := h.exprParser.Parse(value, h)

		var err error
		switch h.settings.Kind(key) {
		case reflect.Invalid:
			err = fmt.Errorf("Setting '%s' not found", key)
		case reflect.String:
			err = h.settings.Set(key, value)
		case reflect.Bool:
			var v bool
			v, err = stringToBool(value)
			if err == nil {
				err = h.settings.Set(key, v)
			}
		default:
			err = errV
			if err == nil {
				err = h.settings.Set(key, v)
			}
		}

		if err == nil {
			h.println("Setting updated.")
		} else {
			h.printf("%v\n", err)
		}

		h.onSettingsUpdate()
	}

	return nil
}

func (h *Host) cmdSpaceList(c cmd.Selection) error {
	if !h.requireROM() {
		return nil
	}

	space := h.rom.Space()
	blocks := space.FreeBlocks()
	if len(c.Args) > 0 && strings.ToLower(c.Args[0]) == "used" {
		blocks = space.UsedBlocks()
	}

	h.println("Start    End      Size")
	h.println("-------- -------- --------")
	for _, b := range blocks {
		h.printf("$%06X  $%06X  $%06X\n", b.Start, b.End, b.Len())
	}
	return nil
}

func (h *Host) cmdSpaceFind(c cmd.Selection) error {
	if !h.requireROM() {
		return nil
	}
	if len(c.Args) < 1 {
		h.displayHelpText(c.Command)
		return nil
	}

	size, err := h.parseExpr(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	hint := 0
	if len(c.Args) >= 2 {
		hint, err = h.parseExpr(c.Args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
	}

	addr, err := h.rom.Space().Alloc(size, hint)
	if err != nil {
		h.printf("No free block of $%X bytes found.\n", size)
		return nil
	}

	h.printf("Found $%X bytes at $%06X.\n", size, addr)
	return nil
}

func (h *Host) cmdSpaceFree(c cmd.Selection) error {
	return h.markSpace(c, rom.MarkFree, "free")
}

func (h *Host) cmdSpaceUse(c cmd.Selection) error {
	return h.markSpace(c, rom.MarkUsed, "used")
}

func (h *Host) markSpace(c cmd.Selection, mark rom.WriteMark, desc string) error {
	if !h.requireROM() {
		return nil
	}
	if len(c.Args) < 2 {
		h.displayHelpText(c.Command)
		return nil
	}

	start, err := h.parseExpr(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}
	end, err := h.parseExpr(c.Args[1])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}
	if end <= start {
		h.println("End must be greater than start.")
		return nil
	}

	h.rom.Mark(start, end, mark)
	h.printf("Marked $%06X..$%06X as %s.\n", start, end, desc)
	return nil
}

func (h *Host) onSettingsUpdate() {
	h.exprParser.hexMode = h.settings.HexMode
}

func (h *Host) parseExpr(expr string) (int, error) {
	v, err := h.exprParser.Parse(expr, h)
	if err != nil {
		return 0, err
	}

	if v < 0 {
		v = 0x1000000 + v
	}
	return int(v) & 0xffffff, nil
}

func (h *Host) disasmFlags() byte {
	var flags byte
	if h.settings.MBit {
		flags |= cpu.FlagM
	}
	if h.settings.XBit {
		flags |= cpu.FlagX
	}
	return flags
}

// A codeWindow holds a copy of the few bytes under disassembly, so an
// instruction truncated by the end of the image reads zeros instead of
// running off the image.
type codeWindow struct {
	base int
	buf  [4]byte
}

func (w *codeWindow) LoadByte(addr int) byte {
	return w.buf[addr-w.base]
}

func (w *codeWindow) LoadBytes(addr int, b []byte) {
	copy(b, w.buf[addr-w.base:])
}

func (h *Host) disassemble(addr int) (str string, next int) {
	w := codeWindow{base: addr}
	h.rom.LoadBytes(addr, w.buf[:])

	var line string
	line, next = disasm.Disassemble(&w, addr, h.disasmFlags())

	n := next - addr
	if addr+n > h.rom.Size() {
		n = h.rom.Size() - addr
	}

	str = fmt.Sprintf("%06X-   %-11s    %-15s", addr, codeString(w.buf[:n]), line)

	if anno, ok := h.annotations[addr]; ok {
		str += " ; " + anno
	}

	return str, next
}

func (h *Host) dumpMemory(addr0, bytes int) {
	if bytes <= 0 || addr0 < 0 || addr0 >= h.rom.Size() {
		return
	}

	end := addr0 + bytes
	if end > h.rom.Size() {
		end = h.rom.Size()
	}

	buf := []byte("      -" + strings.Repeat(" ", 35))

	// Don't align display for short dumps.
	if end-addr0 < 8 {
		addrToBuf(addr0, buf[0:6])
		for a, c1, c2 := addr0, 8, 34; a < end; a, c1, c2 = a+1, c1+3, c2+1 {
			m := h.rom.LoadByte(a)
			byteToBuf(m, buf[c1:c1+2])
			buf[c2] = toPrintableChar(m)
		}
		h.println(string(buf))
		return
	}

	// Align the dump to 8-byte boundaries.
	start := addr0 &^ 7
	stop := (end + 7) &^ 7

	a := start
	for r := start; r < stop; r += 8 {
		addrToBuf(a, buf[0:6])
		for c1, c2 := 8, 34; c1 < 31; c1, c2, a = c1+3, c2+1, a+1 {
			if a >= addr0 && a < end {
				m := h.rom.LoadByte(a)
				byteToBuf(m, buf[c1:c1+2])
				buf[c2] = toPrintableChar(m)
			} else {
				buf[c1] = ' '
				buf[c1+1] = ' '
				buf[c2] = ' '
			}
		}
		h.println(string(buf))
	}
}

func (h *Host) displayHelpText(c *cmd.Command) {
	if c.HelpText != "" {
		h.printf("Syntax: %s\n", c.HelpText)
	} else {
		h.println("<no help text>")
	}
}

func (h *Host) displayCommands(commands *cmd.Tree) {
	h.printf("%s commands:\n", commands.Title)
	for _, c := range commands.Commands {
		if c.Brief != "" {
			h.printf("    %-15s  %s\n", c.Name, c.Brief)
		}
	}
}

func (h *Host) resolveIdentifier(s string) (int64, error) {
	s = strings.ToLower(s)

	switch s {
	case "header":
		return rom.HeaderAddr, nil
	case "checksum":
		return rom.ChecksumAddr, nil
	case "complement":
		return rom.ChecksumComplementAddr, nil
	case "wrmpya":
		return rom.WRMPYA, nil
	case "wrmpyb":
		return rom.WRMPYB, nil
	case "rdmpyl":
		return rom.RDMPYL, nil
	case "rdmpyh":
		return rom.RDMPYH, nil
	case "end":
		if h.rom != nil {
			return int64(h.rom.Size()), nil
		}
	case ".":
		return int64(h.settings.NextDisasmAddr), nil
	}

	return 0, fmt.Errorf("identifier '%s' not found", s)
}
