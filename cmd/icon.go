package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var (
	iconSource      string
	iconOutput      string
	iconKeepIconset bool
)

// iconSizes is the full .iconset inventory: each point size at 1x and 2x.
var iconSizes = []struct {
	Pixels int
	Name   string
}{
	{16, "icon_16x16.png"},
	{32, "icon_16x16@2x.png"},
	{32, "icon_32x32.png"},
	{64, "icon_32x32@2x.png"},
	{128, "icon_128x128.png"},
	{256, "icon_128x128@2x.png"},
	{256, "icon_256x256.png"},
	{512, "icon_256x256@2x.png"},
	{512, "icon_512x512.png"},
	{1024, "icon_512x512@2x.png"},
}

func init() {
	iconCmd.Flags().StringVarP(&iconSource, "source", "s", "", "Source PNG image (1024x1024 recommended)")
	iconCmd.Flags().StringVarP(&iconOutput, "output", "o", "", "Output .icns path (default: source name with .icns)")
	iconCmd.Flags().BoolVar(&iconKeepIconset, "keep-iconset", false, "Keep the intermediate .iconset directory")
	iconCmd.MarkFlagRequired("source")
	rootCmd.AddCommand(iconCmd)
}

var iconCmd = &cobra.Command{
	Use:   "icon",
	Short: "Package a PNG into a macOS .icns icon",
	Long: `Package a PNG image into a macOS .icns application icon.

Renders every .iconset size with sips and bundles the set with iconutil,
so this command only works on macOS.

Examples:
  sqlamodel icon -s appicon.png
  sqlamodel icon -s appicon.png -o dist/appicon.icns --keep-iconset
`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runIcon(); err != nil {
			fmt.Printf("❌ Packaging icon: %v\n", err)
			os.Exit(1)
		}
	},
}

func runIcon() error {
	for _, tool := range []string{"sips", "iconutil"} {
		if _, err := exec.LookPath(tool); err != nil {
			return fmt.Errorf("%s not found (macOS required)", tool)
		}
	}

	if _, err := os.Stat(iconSource); err != nil {
		return fmt.Errorf("source image: %v", err)
	}

	base := strings.TrimSuffix(iconSource, filepath.Ext(iconSource))
	output := iconOutput
	if output == "" {
		output = base + ".icns"
	}
	iconsetDir := base + ".iconset"

	if err := os.MkdirAll(iconsetDir, 0755); err != nil {
		return fmt.Errorf("creating %s: %v", iconsetDir, err)
	}

	for _, size := range iconSizes {
		dest := filepath.Join(iconsetDir, size.Name)
		px := strconv.Itoa(size.Pixels)
		out, err := exec.Command("sips", "-z", px, px, iconSource, "--out", dest).CombinedOutput()
		if err != nil {
			return fmt.Errorf("sips %s: %v: %s", size.Name, err, out)
		}
		fmt.Printf("  📐 %s\n", size.Name)
	}

	out, err := exec.Command("iconutil", "-c", "icns", iconsetDir, "-o", output).CombinedOutput()
	if err != nil {
		return fmt.Errorf("iconutil: %v: %s", err, out)
	}

	if !iconKeepIconset {
		if err := os.RemoveAll(iconsetDir); err != nil {
			return fmt.Errorf("removing %s: %v", iconsetDir, err)
		}
	}

	fmt.Println("✅ Icon written to:", output)
	return nil
}
