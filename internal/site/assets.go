package site

// cssContent is the stylesheet written next to the pages as wikikit.css.
const cssContent = `/* ============ Variables ============ */
:root {
  --bg: #ffffff;
  --bg-secondary: #f8f9fa;
  --bg-sidebar: #f1f3f5;
  --text: #212529;
  --text-secondary: #495057;
  --text-muted: #868e96;
  --border: #dee2e6;
  --accent: #228be6;
  --accent-hover: #1c7ed6;
  --accent-light: #e7f5ff;
  --code-bg: #f1f3f5;
  --link: #228be6;
  --header-height: 56px;
  --sidebar-width: 260px;
  --toc-width: 240px;
  --content-max-width: 860px;
  --shadow: 0 1px 3px rgba(0,0,0,0.08);
  --shadow-lg: 0 4px 12px rgba(0,0,0,0.1);
}

[data-theme="dark"] {
  --bg: #1a1b26;
  --bg-secondary: #1f2030;
  --bg-sidebar: #16171f;
  --text: #c0caf5;
  --text-secondary: #a9b1d6;
  --text-muted: #565f89;
  --border: #292e42;
  --accent: #7aa2f7;
  --accent-hover: #89b4fa;
  --accent-light: #1a1b2e;
  --code-bg: #1f2030;
  --link: #7aa2f7;
  --shadow: 0 1px 3px rgba(0,0,0,0.3);
  --shadow-lg: 0 4px 12px rgba(0,0,0,0.4);
}

/* ============ Base ============ */
*, *::before, *::after { box-sizing: border-box; }

html { font-size: 16px; scroll-behavior: smooth; }

body {
  margin: 0;
  font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
  color: var(--text);
  background: var(--bg);
  line-height: 1.7;
}

a { color: var(--link); text-decoration: none; }
a:hover { text-decoration: underline; }

code, pre { font-family: "SFMono-Regular", Consolas, "Liberation Mono", Menlo, monospace; }
code { background: var(--code-bg); padding: 0.1em 0.35em; border-radius: 4px; font-size: 0.9em; }
pre { background: var(--code-bg); padding: 12px 16px; border-radius: 6px; overflow-x: auto; }
pre code { background: none; padding: 0; }

img { max-width: 100%; }

table { border-collapse: collapse; margin: 1em 0; }
th, td { border: 1px solid var(--border); padding: 6px 12px; }

/* ============ Header ============ */
.wiki-header {
  position: sticky;
  top: 0;
  z-index: 200;
  height: var(--header-height);
  display: flex;
  align-items: center;
  gap: 16px;
  padding: 0 20px;
  background: var(--bg);
  border-bottom: 1px solid var(--border);
}

.wiki-brand { font-weight: 700; font-size: 1.1rem; color: var(--accent); white-space: nowrap; }

.wiki-menu-toggle, .wiki-theme-toggle {
  background: none;
  border: 1px solid var(--border);
  border-radius: 6px;
  color: var(--text-secondary);
  cursor: pointer;
  font-size: 1rem;
  padding: 4px 10px;
}
.wiki-menu-toggle { display: none; }
.wiki-theme-toggle { margin-left: auto; }

/* ============ Search ============ */
.wiki-search { position: relative; flex: 1; max-width: 420px; }

#wiki-search-input {
  width: 100%;
  padding: 7px 12px;
  border: 1px solid var(--border);
  border-radius: 6px;
  background: var(--bg-secondary);
  color: var(--text);
  font-size: 0.9rem;
  outline: none;
}
#wiki-search-input:focus { border-color: var(--accent); }

.wiki-search-results {
  position: absolute;
  top: calc(100% + 6px);
  left: 0;
  right: 0;
  max-height: 60vh;
  overflow-y: auto;
  background: var(--bg);
  border: 1px solid var(--border);
  border-radius: 8px;
  box-shadow: var(--shadow-lg);
}

.search-results { list-style: none; margin: 0; padding: 4px 0; }
.search-result { display: block; padding: 8px 14px; color: var(--text); }
.search-result:hover, .search-result.selected { background: var(--accent-light); text-decoration: none; }
.search-result-title { display: block; font-weight: 600; }
.search-result-desc { display: block; font-size: 0.85rem; color: var(--text-muted); }
.search-placeholder, .search-empty { padding: 12px 14px; color: var(--text-muted); font-size: 0.9rem; }

/* ============ Layout ============ */
.wiki-layout {
  display: grid;
  grid-template-columns: var(--sidebar-width) minmax(0, 1fr) var(--toc-width);
  align-items: start;
}

.wiki-main {
  padding: 32px 40px 64px;
  max-width: var(--content-max-width);
  width: 100%;
  justify-self: center;
}

/* ============ Sidebar ============ */
.wiki-sidebar {
  position: sticky;
  top: var(--header-height);
  height: calc(100vh - var(--header-height));
  overflow-y: auto;
  padding: 20px 16px;
  background: var(--bg-sidebar);
  border-right: 1px solid var(--border);
}

.sidebar-section + .sidebar-section { margin-top: 18px; }
.sidebar-label {
  font-size: 0.75rem;
  font-weight: 700;
  letter-spacing: 0.05em;
  text-transform: uppercase;
  color: var(--text-muted);
  margin-bottom: 6px;
}
.wiki-sidebar ul { list-style: none; margin: 0; padding: 0; }
.wiki-sidebar li a { display: block; padding: 3px 8px; border-radius: 4px; color: var(--text-secondary); font-size: 0.9rem; }
.wiki-sidebar li a:hover { background: var(--accent-light); text-decoration: none; }
.wiki-sidebar li a.active { background: var(--accent-light); color: var(--accent); font-weight: 600; }
.sidebar-empty { color: var(--text-muted); font-size: 0.85rem; font-style: italic; }

.wiki-sidebar-overlay {
  position: fixed;
  inset: 0;
  background: rgba(0,0,0,0.35);
  z-index: 140;
}
.wiki-sidebar-overlay[hidden] { display: none; }

/* ============ Table of contents ============ */
.wiki-toc-panel {
  position: sticky;
  top: var(--header-height);
  max-height: calc(100vh - var(--header-height));
  overflow-y: auto;
  padding: 24px 16px;
}
.wiki-toc-panel[hidden] { display: none; }

.toc-title, .wiki-toc summary {
  font-size: 0.75rem;
  font-weight: 700;
  letter-spacing: 0.05em;
  text-transform: uppercase;
  color: var(--text-muted);
}
.toc-list { list-style: none; margin: 6px 0 0; padding: 0; }
.toc-list .toc-list { padding-left: 14px; margin: 0; }
.toc-list a { display: block; padding: 2px 0 2px 10px; border-left: 2px solid transparent; color: var(--text-secondary); font-size: 0.85rem; }
.toc-side .toc-list a.active { border-left-color: var(--accent); color: var(--accent); }
.toc-gap { list-style: none; }

.wiki-toc {
  float: right;
  margin: 0 0 16px 24px;
  padding: 10px 14px;
  max-width: 280px;
  background: var(--bg-secondary);
  border: 1px solid var(--border);
  border-radius: 6px;
}
.wiki-toc summary { cursor: pointer; }

.heading-anchor { margin-left: 6px; color: var(--text-muted); opacity: 0; font-weight: 400; }
h2:hover .heading-anchor, h3:hover .heading-anchor, h4:hover .heading-anchor { opacity: 1; }

/* ============ Widgets ============ */
.wiki-tabs { margin: 1em 0; }
.wiki-tabs .tab {
  background: none;
  border: none;
  border-bottom: 2px solid transparent;
  color: var(--text-secondary);
  cursor: pointer;
  padding: 6px 14px;
  font: inherit;
}
.wiki-tabs .tab.active { border-bottom-color: var(--accent); color: var(--accent); }
.wiki-tabs .tab-panel { display: none; padding: 12px 0; }
.wiki-tabs .tab-panel.active { display: block; }

.collapsible { cursor: pointer; }
.collapsible-icon { display: inline-block; margin-right: 6px; transition: transform 0.15s; }
.collapsible.open > .collapsible-icon { transform: rotate(90deg); }
.collapsible-content { display: none; cursor: auto; }
.collapsible.open .collapsible-content, .collapsible.open + .collapsible-content { display: block; }

.lightbox-trigger { cursor: zoom-in; }
.wiki-lightbox {
  position: fixed;
  inset: 0;
  z-index: 500;
  display: flex;
  align-items: center;
  justify-content: center;
  background: rgba(0,0,0,0.85);
  cursor: zoom-out;
}
.wiki-lightbox[hidden] { display: none; }
.wiki-lightbox img { max-width: 92vw; max-height: 92vh; box-shadow: var(--shadow-lg); }

a.external .external-indicator { font-size: 0.75em; margin-left: 2px; }

.wiki-graph { min-height: 320px; margin: 1em 0; border: 1px solid var(--border); border-radius: 6px; }
.wiki-graph[data-graph-error] { min-height: 0; padding: 8px 12px; color: var(--text-muted); }
.wiki-graph-fallback { display: block; padding: 12px; }

/* ============ Footer ============ */
.wiki-footer {
  border-top: 1px solid var(--border);
  padding: 16px 20px;
  color: var(--text-muted);
  font-size: 0.85rem;
  text-align: center;
}

/* ============ Responsive ============ */
@media (max-width: 1100px) {
  .wiki-layout { grid-template-columns: var(--sidebar-width) minmax(0, 1fr); }
  .wiki-toc-panel { display: none; }
}

@media (max-width: 768px) {
  .wiki-menu-toggle { display: inline-block; }
  .wiki-layout { grid-template-columns: minmax(0, 1fr); }
  .wiki-sidebar {
    position: fixed;
    left: 0;
    top: var(--header-height);
    z-index: 150;
    width: var(--sidebar-width);
    transform: translateX(-100%);
    transition: transform 0.2s;
  }
  .wiki-sidebar.open { transform: translateX(0); box-shadow: var(--shadow-lg); }
  .wiki-main { padding: 20px 16px 48px; }
  .wiki-toc { float: none; margin: 0 0 16px; max-width: none; }
}
`

// jsContent is the runtime script written next to the pages as wikikit.js.
// The page chrome is already in the document; the script only wires the
// interactive parts.
const jsContent = `(function() {
  "use strict";

  var STORAGE_KEY = "wikikit-theme";
  var RESULT_LIMIT = 10;
  var PROMPT_TEXT = "Start typing to search…";

  var root = document.documentElement;

  function meta(name) {
    var el = document.querySelector('meta[name="' + name + '"]');
    return el ? el.getAttribute("content") || "" : "";
  }

  var base = meta("wikikit-base");

  function escapeHtml(str) {
    var div = document.createElement("div");
    div.textContent = str;
    return div.innerHTML;
  }

  function isAbsolute(url) {
    return /^[a-z][a-z0-9+.-]*:/i.test(url) || url.charAt(0) === "/";
  }

  // ===== Theme =====
  function setTheme(theme) {
    root.setAttribute("data-theme", theme);
    try { localStorage.setItem(STORAGE_KEY, theme); } catch (e) {}
  }

  function initTheme() {
    var toggle = document.getElementById("wiki-theme-toggle");
    if (!toggle) return;
    toggle.addEventListener("click", function() {
      setTheme(root.getAttribute("data-theme") === "dark" ? "light" : "dark");
    });
  }

  // ===== Mobile menu =====
  function initMenu() {
    var toggle = document.getElementById("wiki-menu-toggle");
    var sidebar = document.getElementById("wiki-sidebar");
    var overlay = document.getElementById("wiki-sidebar-overlay");
    if (!toggle || !sidebar) return;

    function setOpen(open) {
      sidebar.classList.toggle("open", open);
      toggle.setAttribute("aria-expanded", open ? "true" : "false");
      if (overlay) overlay.hidden = !open;
    }

    toggle.addEventListener("click", function() {
      setOpen(!sidebar.classList.contains("open"));
    });
    document.addEventListener("click", function(e) {
      if (!sidebar.classList.contains("open")) return;
      if (sidebar.contains(e.target) || toggle.contains(e.target)) return;
      setOpen(false);
    });
    document.addEventListener("keydown", function(e) {
      if (e.key === "Escape" && sidebar.classList.contains("open")) setOpen(false);
    });
  }

  // ===== Search =====
  // match mirrors the server side matcher: untrimmed lower-cased query,
  // substring of title, desc and tags joined by spaces, catalog order,
  // capped at RESULT_LIMIT.
  function match(pages, query) {
    if (query.trim() === "") return [];
    var needle = query.toLowerCase();
    var out = [];
    for (var i = 0; i < pages.length && out.length < RESULT_LIMIT; i++) {
      var p = pages[i];
      var hay = ((p.title || "") + " " + (p.desc || "") + " " + (p.tags || []).join(" ")).toLowerCase();
      if (hay.indexOf(needle) !== -1) out.push(p);
    }
    return out;
  }

  function inlineCatalog() {
    var block = document.getElementById("wiki-pages-data");
    if (!block) return [];
    try {
      var data = JSON.parse(block.textContent);
      return Array.isArray(data) ? data : [];
    } catch (e) {
      return [];
    }
  }

  function initSearch() {
    var input = document.getElementById("wiki-search-input");
    var panel = document.getElementById("wiki-search-results");
    if (!input || !panel) return;

    // The catalog starts from the inline copy and is replaced once the index
    // file arrives. Bootstrap never waits for it.
    var pages = inlineCatalog();
    var hits = [];
    var selected = -1;

    if (window.fetch) {
      fetch(base + "search-index.json")
        .then(function(r) { if (!r.ok) throw new Error(r.status); return r.json(); })
        .then(function(data) {
          if (Array.isArray(data)) {
            pages = data;
            if (!panel.hidden) render();
          }
        })
        .catch(function() {});
    }

    function href(url) {
      return isAbsolute(url) ? url : base + url;
    }

    function render() {
      var query = input.value;
      hits = match(pages, query);
      selected = hits.length ? 0 : -1;
      if (query.trim() === "") {
        panel.innerHTML = '<div class="search-placeholder">' + escapeHtml(PROMPT_TEXT) + '</div>';
        return;
      }
      if (!hits.length) {
        panel.innerHTML = '<div class="search-empty">' + escapeHtml("No results for «" + query + "»") + '</div>';
        return;
      }
      var html = '<ul class="search-results" role="listbox">';
      hits.forEach(function(p, i) {
        html += '<li role="option"><a class="search-result' + (i === selected ? ' selected' : '') + '" href="' + escapeHtml(href(p.url)) + '">';
        html += '<span class="search-result-title">' + escapeHtml(p.title) + '</span>';
        if (p.desc) html += '<span class="search-result-desc">' + escapeHtml(p.desc) + '</span>';
        html += '</a></li>';
      });
      panel.innerHTML = html + '</ul>';
    }

    function select(i) {
      var rows = panel.querySelectorAll(".search-result");
      if (!rows.length) return;
      selected = (i + rows.length) % rows.length;
      rows.forEach(function(row, j) { row.classList.toggle("selected", j === selected); });
      rows[selected].scrollIntoView({ block: "nearest" });
    }

    function show() { panel.hidden = false; render(); }
    function hide() { panel.hidden = true; }

    input.addEventListener("focus", show);
    input.addEventListener("input", show);
    input.addEventListener("keydown", function(e) {
      if (e.key === "ArrowDown") { e.preventDefault(); select(selected + 1); }
      else if (e.key === "ArrowUp") { e.preventDefault(); select(selected - 1); }
      else if (e.key === "Escape") { hide(); input.blur(); }
      else if (e.key === "Enter" && selected >= 0 && hits[selected]) {
        e.preventDefault();
        window.location.href = href(hits[selected].url);
      }
    });
    document.addEventListener("click", function(e) {
      if (e.target === input || panel.contains(e.target)) return;
      hide();
    });
  }

  // ===== Tabs =====
  function initTabs() {
    document.querySelectorAll(".wiki-tabs").forEach(function(group) {
      var tabs = group.querySelectorAll(".tab");
      var panels = group.querySelectorAll(".tab-panel");
      tabs.forEach(function(tab, i) {
        tab.addEventListener("click", function() {
          tabs.forEach(function(t, j) {
            t.classList.toggle("active", j === i);
            t.setAttribute("aria-selected", j === i ? "true" : "false");
          });
          panels.forEach(function(p, j) { p.classList.toggle("active", j === i); });
        });
      });
    });
  }

  // ===== Collapsibles =====
  function initCollapsibles() {
    document.querySelectorAll(".collapsible").forEach(function(c) {
      if (!c.querySelector(":scope > .collapsible-icon")) {
        var icon = document.createElement("span");
        icon.className = "collapsible-icon";
        icon.setAttribute("aria-hidden", "true");
        icon.textContent = "▸";
        c.insertBefore(icon, c.firstChild);
      }
      c.addEventListener("click", function(e) {
        if (e.target.closest("a") || e.target.closest(".collapsible-content")) return;
        var open = c.classList.toggle("open");
        c.setAttribute("aria-expanded", open ? "true" : "false");
        var next = c.nextElementSibling;
        if (next && next.classList.contains("collapsible-content")) next.classList.toggle("open", open);
      });
    });
  }

  // ===== Lightbox =====
  function initLightbox() {
    var box = document.getElementById("wiki-lightbox");
    if (!box) return;
    var img = box.querySelector("img");

    function close() { box.hidden = true; if (img) img.removeAttribute("src"); }

    document.querySelectorAll("img[data-lightbox]").forEach(function(trigger) {
      trigger.addEventListener("click", function() {
        if (img) {
          img.src = trigger.getAttribute("data-lightbox");
          img.alt = trigger.alt || "";
        }
        box.hidden = false;
      });
    });
    box.addEventListener("click", close);
    document.addEventListener("keydown", function(e) {
      if (e.key === "Escape" && !box.hidden) close();
    });
  }

  // ===== Scroll-spy =====
  // Among headings inside the trigger band the one nearest the viewport top
  // wins; with none in the band the previous highlight stays.
  function initScrollSpy() {
    var nav = document.querySelector(".toc-side");
    if (!nav || !("IntersectionObserver" in window)) return;

    var links = {};
    nav.querySelectorAll("a[data-toc-target]").forEach(function(a) {
      links[a.getAttribute("data-toc-target")] = a;
    });
    var headings = Object.keys(links)
      .map(function(id) { return document.getElementById(id); })
      .filter(function(h) { return h; });
    if (!headings.length) return;

    var inBand = {};
    var active = null;

    function activate(id) {
      if (id === active) return;
      if (active && links[active]) links[active].classList.remove("active");
      active = id;
      if (links[id]) links[id].classList.add("active");
    }

    var observer = new IntersectionObserver(function(entries) {
      entries.forEach(function(entry) {
        if (entry.isIntersecting) inBand[entry.target.id] = true;
        else delete inBand[entry.target.id];
      });
      var best = null;
      var bestTop = Infinity;
      headings.forEach(function(h) {
        if (!inBand[h.id]) return;
        var top = h.getBoundingClientRect().top;
        if (top < bestTop) { best = h.id; bestTop = top; }
      });
      if (best) activate(best);
    }, { rootMargin: nav.getAttribute("data-spy-margin") || "-20% 0px -30% 0px" });

    headings.forEach(function(h) { observer.observe(h); });
  }

  // ===== Math =====
  var mathDone = false;

  function initMath() {
    if (mathDone || typeof window.renderMathInElement !== "function") return;
    var cfg = document.getElementById("wikikit-math-config");
    if (!cfg) return;
    try {
      window.renderMathInElement(document.getElementById("wiki-main") || document.body, JSON.parse(cfg.textContent));
      mathDone = true;
    } catch (e) {
      if (window.console) console.warn("wikikit: math rendering failed", e);
    }
  }

  // ===== Graphs =====
  // Returns false while the graphing library is missing so the caller can
  // retry once after window load. Fallback links stay until a calculator
  // replaces them.
  function initGraphs() {
    if (!window.Desmos || typeof window.Desmos.GraphingCalculator !== "function") return false;
    document.querySelectorAll(".wiki-graph[data-graph]:not([data-graph-ready])").forEach(function(el) {
      var exprs;
      try {
        exprs = JSON.parse(el.getAttribute("data-graph"));
      } catch (e) {
        if (window.console) console.warn("wikikit: skipping graph embed", el.id, e);
        return;
      }
      var fallback = el.querySelector(".wiki-graph-fallback");
      var host = document.createElement("div");
      host.className = "wiki-graph-canvas";
      host.style.height = (el.getAttribute("data-height") || "360") + "px";
      el.appendChild(host);
      try {
        var calc = window.Desmos.GraphingCalculator(host, { expressions: true, keypad: false });
        exprs.forEach(function(x, i) {
          var expr = { id: "expr" + i, latex: x.expression };
          if (x.color) expr.color = x.color;
          calc.setExpression(expr);
        });
        if (fallback) fallback.remove();
        el.setAttribute("data-graph-ready", "");
      } catch (e) {
        host.remove();
        if (window.console) console.warn("wikikit: graph initialisation failed", el.id, e);
      }
    });
    return true;
  }

  // ===== Live reload =====
  function initLiveReload() {
    var path = meta("wikikit-live-reload");
    if (!path || !("WebSocket" in window)) return;
    var scheme = location.protocol === "https:" ? "wss://" : "ws://";
    var ws;
    try { ws = new WebSocket(scheme + location.host + path); } catch (e) { return; }
    ws.addEventListener("message", function(e) {
      if (e.data === "reload") location.reload();
    });
  }

  function init() {
    initTheme();
    initMenu();
    initSearch();
    initTabs();
    initCollapsibles();
    initLightbox();
    initScrollSpy();
    initLiveReload();
    initMath();
    var graphsReady = initGraphs();
    window.addEventListener("load", function() {
      initMath();
      if (!graphsReady) initGraphs();
    });
  }

  if (document.readyState === "complete") {
    init();
  } else {
    document.addEventListener("DOMContentLoaded", init);
  }
})();
`
