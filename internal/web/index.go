package web

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>Rotor</title>
  <style>
    :root {
      --bg:#ffffff;
      --ink:#111111;
      --ink-soft:#9c9c9c;
      --panel:#f6f6f6;
    }
    * { box-sizing:border-box; }
    body {
      margin:0;
      min-height:100vh;
      display:flex;
      align-items:center;
      justify-content:center;
      padding:2rem;
      background:var(--bg);
      color:var(--ink);
      font-family:'Space Mono','JetBrains Mono',monospace;
    }
    #app {
      width:min(1100px, 96vw);
      background:var(--panel);
      border:3px solid var(--ink);
      padding:2rem;
      box-shadow:12px 12px 0 rgba(0,0,0,.15);
    }
    header { display:flex; justify-content:space-between; align-items:baseline; gap:1rem; }
    h1 { font-size:1rem; text-transform:uppercase; letter-spacing:.2em; margin:0; }
    .meta { font-size:.7rem; color:var(--ink-soft); }
    table { width:100%; border-collapse:collapse; margin-top:1.5rem; font-size:.75rem; }
    th, td { border:1px solid var(--ink); padding:.45rem .6rem; text-align:right; }
    th { text-transform:uppercase; letter-spacing:.1em; font-size:.6rem; background:#ffffff; }
    td:first-child, th:first-child { text-align:left; }
    .plan-hold { color:var(--ink-soft); }
    .plan-rotate { font-weight:700; }
    #total { font-size:.85rem; margin-top:1rem; }
  </style>
</head>
<body>
  <div id="app">
    <header>
      <h1>Rotor &mdash; ratio rotation</h1>
      <div class="meta" id="meta">waiting for first cycle&hellip;</div>
    </header>
    <div id="total"></div>
    <table>
      <thead>
        <tr>
          <th>pair</th><th>price A</th><th>price B</th><th>ratio</th>
          <th>band</th><th>pair value</th><th>max capital</th>
          <th>holding</th><th>plan</th>
        </tr>
      </thead>
      <tbody id="pairs"></tbody>
    </table>
  </div>
  <script>
    const source = new EventSource('/cycles/stream');
    source.onmessage = (e) => {
      const snap = JSON.parse(e.data);
      document.getElementById('meta').textContent =
        snap.ts + (snap.simulate ? ' · SIMULATE' : ' · LIVE') +
        (snap.reference_price ? ' · BTC ' + snap.reference_price : '');
      document.getElementById('total').textContent =
        'total portfolio value: ' + snap.total_value_stable + ' ' + snap.stable_asset;
      const rows = (snap.pairs || []).map(p => {
        const planClass = p.next_plan === 'hold' ? 'plan-hold' : 'plan-rotate';
        return '<tr><td>' + p.name + '</td><td>' + p.price_a + '</td><td>' + p.price_b +
          '</td><td>' + p.ratio + '</td><td>' + p.lower_ratio + ' .. ' + p.upper_ratio +
          '</td><td>' + p.value_pair + '</td><td>' + p.max_capital +
          '</td><td>' + p.current_asset + '</td><td class="' + planClass + '">' +
          p.next_plan + '</td></tr>';
      });
      document.getElementById('pairs').innerHTML = rows.join('');
    };
  </script>
</body>
</html>
`
