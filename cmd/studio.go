package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ridoystarlord/sqlamodel/extract"
	"github.com/ridoystarlord/sqlamodel/generator"
	"github.com/ridoystarlord/sqlamodel/parser"
)

var studioCmd = &cobra.Command{
	Use:   "studio",
	Short: "Launch the web-based converter",
	Long: `Launch sqlamodel Studio - a web page with a DDL pane and a model pane.

Paste CREATE TABLE / CREATE INDEX statements on the left, pick a dialect,
and the generated SQLAlchemy class appears on the right.

The interface will be available at http://localhost:8080 by default.`,
	Run: func(cmd *cobra.Command, args []string) {
		port := viper.GetString("studio.port")
		if port == "" {
			port = "8080"
		}

		fmt.Printf("🚀 Starting sqlamodel Studio on http://localhost:%s\n", port)
		fmt.Println("Press Ctrl+C to stop the server")

		if err := startStudioServer(port); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(studioCmd)

	studioCmd.Flags().String("port", "8080", "Port to run the web server on")
	viper.BindPFlag("studio.port", studioCmd.Flags().Lookup("port"))
}

func startStudioServer(port string) error {
	http.HandleFunc("/", handleStudioIndex)
	http.HandleFunc("/api/convert", handleConvert)
	http.HandleFunc("/api/dialects", handleDialects)

	return http.ListenAndServe(":"+port, nil)
}

type convertRequest struct {
	SQL     string `json:"sql"`
	Dialect string `json:"dialect"`
}

type convertResponse struct {
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
}

func handleConvert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req convertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeConvertError(w, fmt.Errorf("invalid request body: %v", err))
		return
	}

	dialect, err := parser.ParseDialect(req.Dialect)
	if err != nil {
		writeConvertError(w, err)
		return
	}
	stmts, err := parser.Parse(req.SQL, dialect)
	if err != nil {
		writeConvertError(w, err)
		return
	}
	table, err := extract.Table(stmts, extract.Annotation(req.SQL))
	if err != nil {
		writeConvertError(w, err)
		return
	}
	output, err := generator.Model(table)
	if err != nil {
		writeConvertError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(convertResponse{Output: output})
}

// writeConvertError keeps the conversion error text intact so the page can
// show the same message the CLI would.
func writeConvertError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(convertResponse{Error: err.Error()})
}

func handleDialects(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(parser.Dialects())
}

func handleStudioIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, studioHTML)
}

const studioHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>sqlamodel Studio</title>
    <script src="https://cdn.tailwindcss.com"></script>
    <script>
        tailwind.config = {
            theme: {
                extend: {
                    colors: {
                        primary: {
                            50: '#eff6ff',
                            500: '#3b82f6',
                            600: '#2563eb',
                            700: '#1d4ed8',
                        }
                    }
                }
            }
        }
    </script>
</head>
<body class="bg-slate-100 min-h-screen">
    <div class="max-w-7xl mx-auto px-4 py-6">
        <div class="flex items-center justify-between mb-6">
            <div>
                <h1 class="text-2xl font-bold text-slate-800">sqlamodel Studio</h1>
                <p class="text-sm text-slate-500">SQL DDL in, SQLAlchemy model out</p>
            </div>
            <div class="flex items-center gap-3">
                <select id="dialect" class="border border-slate-300 rounded-lg px-3 py-2 text-sm bg-white">
                    <option value="postgres">postgres</option>
                    <option value="mysql">mysql</option>
                    <option value="sqlite">sqlite</option>
                </select>
                <button id="convert-btn" class="bg-primary-600 hover:bg-primary-700 text-white text-sm font-medium px-4 py-2 rounded-lg">
                    Convert
                </button>
                <button id="copy-btn" class="bg-white hover:bg-slate-50 border border-slate-300 text-slate-700 text-sm font-medium px-4 py-2 rounded-lg">
                    Copy
                </button>
            </div>
        </div>

        <div id="error" class="hidden mb-4 bg-red-50 border border-red-200 text-red-700 text-sm rounded-lg px-4 py-3"></div>

        <div class="grid grid-cols-1 lg:grid-cols-2 gap-4">
            <div class="bg-white rounded-xl shadow-sm border border-slate-200">
                <div class="px-4 py-2 border-b border-slate-200 text-xs font-semibold uppercase tracking-wide text-slate-500">SQL DDL</div>
                <textarea id="sql" spellcheck="false"
                    class="w-full h-[32rem] p-4 font-mono text-sm bg-transparent resize-none focus:outline-none"
                    placeholder="-- role
CREATE TABLE IF NOT EXISTS &quot;role&quot; (
    id SERIAL PRIMARY KEY,
    org_id INT NOT NULL,
    name VARCHAR(50) NOT NULL,
    CONSTRAINT uk_org_id_name UNIQUE (org_id, name)
);"></textarea>
            </div>
            <div class="bg-white rounded-xl shadow-sm border border-slate-200">
                <div class="px-4 py-2 border-b border-slate-200 text-xs font-semibold uppercase tracking-wide text-slate-500">SQLAlchemy model</div>
                <pre id="output" class="w-full h-[32rem] p-4 font-mono text-sm overflow-auto text-slate-800"></pre>
            </div>
        </div>

        <p class="mt-4 text-xs text-slate-400">Ctrl+Enter converts. The result matches the CLI byte for byte.</p>
    </div>

    <script>
        const sqlInput = document.getElementById('sql');
        const output = document.getElementById('output');
        const dialectSelect = document.getElementById('dialect');
        const errorBox = document.getElementById('error');

        async function convert() {
            errorBox.classList.add('hidden');
            const res = await fetch('/api/convert', {
                method: 'POST',
                headers: { 'Content-Type': 'application/json' },
                body: JSON.stringify({ sql: sqlInput.value, dialect: dialectSelect.value })
            });
            const data = await res.json();
            if (!res.ok) {
                errorBox.textContent = data.error || 'conversion failed';
                errorBox.classList.remove('hidden');
                output.textContent = '';
                return;
            }
            output.textContent = data.output;
        }

        async function copyOutput() {
            if (!output.textContent) return;
            await navigator.clipboard.writeText(output.textContent);
            const btn = document.getElementById('copy-btn');
            btn.textContent = 'Copied!';
            setTimeout(function () { btn.textContent = 'Copy'; }, 1200);
        }

        async function loadDialects() {
            const res = await fetch('/api/dialects');
            if (!res.ok) return;
            const dialects = await res.json();
            dialectSelect.innerHTML = '';
            dialects.forEach(function (d) {
                const opt = document.createElement('option');
                opt.value = d;
                opt.textContent = d;
                dialectSelect.appendChild(opt);
            });
        }

        document.getElementById('convert-btn').addEventListener('click', convert);
        document.getElementById('copy-btn').addEventListener('click', copyOutput);
        document.addEventListener('keydown', function (e) {
            if ((e.ctrlKey || e.metaKey) && e.key === 'Enter') convert();
        });
        loadDialects();
    </script>
</body>
</html>
`
