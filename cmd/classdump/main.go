package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gobytecode/classfile/classfile"
	"github.com/gobytecode/classfile/classfile/helper"
	"github.com/gobytecode/classfile/internal/classlog"
)

var (
	verbose bool
	useMmap bool
	outPath string
)

// dumpVisitor prints a class's shape to stdout: header, fields, methods.
// It embeds helper.BaseClassVisitor/BaseMethodVisitor so it only needs to
// override the events it actually prints.
type dumpVisitor struct {
	helper.BaseClassVisitor
	w *tabwriter.Writer
}

func (d *dumpVisitor) Visit(version, access int, name, signature, superName string, interfaces []string) {
	fmt.Fprintf(d.w, "class\t%s\n", name)
	fmt.Fprintf(d.w, "  version\t0x%x\n", version)
	fmt.Fprintf(d.w, "  access\t0x%x\n", access)
	fmt.Fprintf(d.w, "  super\t%s\n", superName)
	for _, i := range interfaces {
		fmt.Fprintf(d.w, "  interface\t%s\n", i)
	}
}

func (d *dumpVisitor) VisitField(access int, name, descriptor, signature string, value interface{}) classfile.FieldVisitor {
	fmt.Fprintf(d.w, "  field\t%s %s\n", name, descriptor)
	return nil
}

func (d *dumpVisitor) VisitMethod(access int, name, descriptor, signature string, exceptions []string) classfile.MethodVisitor {
	fmt.Fprintf(d.w, "  method\t%s%s\n", name, descriptor)
	if !verbose {
		return nil
	}
	return &methodDumpVisitor{w: d.w}
}

// methodDumpVisitor prints one line per instruction when --verbose is set.
type methodDumpVisitor struct {
	helper.BaseMethodVisitor
	w *tabwriter.Writer
}

func (m *methodDumpVisitor) VisitInsn(opcode int) {
	fmt.Fprintf(m.w, "    insn\t0x%02x\n", opcode)
}

func (m *methodDumpVisitor) VisitLineNumber(line int, start *classfile.Label) {
	fmt.Fprintf(m.w, "    line\t%d\n", line)
}

func openReader(path string) (*classfile.ClassReader, func() error, error) {
	logger := classlog.Default()
	if useMmap {
		mapped, err := classfile.OpenClassFile(path, &classfile.ReaderOptions{Logger: logger})
		if err != nil {
			return nil, nil, err
		}
		return mapped.ClassReader, mapped.Close, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	reader, err := classfile.NewClassReader(data, &classfile.ReaderOptions{Logger: logger})
	if err != nil {
		return nil, nil, err
	}
	return reader, func() error { return nil }, nil
}

func runDump(cmd *cobra.Command, args []string) error {
	reader, closeFn, err := openReader(args[0])
	if err != nil {
		return err
	}
	defer closeFn()

	w := tabwriter.NewWriter(os.Stdout, 1, 1, 2, ' ', 0)
	reader.Accept(&dumpVisitor{w: w}, 0)
	return w.Flush()
}

func runRoundtrip(cmd *cobra.Command, args []string) error {
	reader, closeFn, err := openReader(args[0])
	if err != nil {
		return err
	}
	defer closeFn()

	writer, err := classfile.NewClassWriterFromReader(reader, classfile.NoResolver{}, classfile.ComputeFrames)
	if err != nil {
		return err
	}
	reader.Accept(writer, 0)

	out, err := writer.ToByteArray()
	if err != nil {
		return err
	}

	if outPath == "" {
		fmt.Printf("round trip ok, %d bytes\n", len(out))
		return nil
	}
	return os.WriteFile(outPath, out, 0o644)
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "classdump",
		Short: "Inspect and round-trip JVM class files",
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "also dump per-instruction detail")
	rootCmd.PersistentFlags().BoolVar(&useMmap, "mmap", false, "memory-map the input instead of reading it into memory")

	dumpCmd := &cobra.Command{
		Use:   "dump <class-file>",
		Short: "Print a class file's header, fields and methods",
		Args:  cobra.ExactArgs(1),
		RunE:  runDump,
	}

	roundtripCmd := &cobra.Command{
		Use:   "roundtrip <class-file>",
		Short: "Parse a class file and re-serialize it, recomputing stack map frames",
		Args:  cobra.ExactArgs(1),
		RunE:  runRoundtrip,
	}
	roundtripCmd.Flags().StringVar(&outPath, "out", "", "write the re-serialized class file here instead of just reporting its size")

	rootCmd.AddCommand(dumpCmd, roundtripCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
